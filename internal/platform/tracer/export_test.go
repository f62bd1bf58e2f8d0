package tracer

// NewTestProvider exposes newProvider to the external test package.
var NewTestProvider = newProvider
