package ranking

// DefaultDial is preselected on every phone field.
const DefaultDial = "+51"

var callingCodes = []CallingCode{
	{Dial: "+51", Name: "Perú", ISO: "PE"},
	{Dial: "+54", Name: "Argentina", ISO: "AR"},
	{Dial: "+56", Name: "Chile", ISO: "CL"},
	{Dial: "+57", Name: "Colombia", ISO: "CO"},
	{Dial: "+506", Name: "Costa Rica", ISO: "CR"},
	{Dial: "+593", Name: "Ecuador", ISO: "EC"},
	{Dial: "+503", Name: "El Salvador", ISO: "SV"},
	{Dial: "+34", Name: "España", ISO: "ES"},
	{Dial: "+1", Name: "Estados Unidos", ISO: "US"},
	{Dial: "+502", Name: "Guatemala", ISO: "GT"},
	{Dial: "+504", Name: "Honduras", ISO: "HN"},
	{Dial: "+52", Name: "México", ISO: "MX"},
	{Dial: "+505", Name: "Nicaragua", ISO: "NI"},
	{Dial: "+507", Name: "Panamá", ISO: "PA"},
	{Dial: "+595", Name: "Paraguay", ISO: "PY"},
	{Dial: "+598", Name: "Uruguay", ISO: "UY"},
	{Dial: "+58", Name: "Venezuela", ISO: "VE"},
}

// CallingCodes returns a copy of the supported dial prefixes.
func CallingCodes() []CallingCode {
	out := make([]CallingCode, len(callingCodes))
	copy(out, callingCodes)
	return out
}

// KnownDial reports whether dial is one of the supported prefixes.
func KnownDial(dial string) bool {
	for _, c := range callingCodes {
		if c.Dial == dial {
			return true
		}
	}
	return false
}
