package form

import (
	"fmt"

	"github.com/martirspe/complaints-book-pro/internal/claim/catalog"
)

const (
	msgRequired     = "Este campo es obligatorio"
	msgPattern      = "El formato ingresado no es válido"
	msgEmail        = "Por favor ingresa un correo electrónico válido"
	msgCheckField   = "Por favor verifica este campo"
	msgMinLengthFmt = "Debe tener al menos %d caracteres"
	msgMaxLengthFmt = "No puede exceder %d caracteres"
)

var fieldMessages = map[Field]map[ErrorKey]string{
	FieldPhone: {
		KeyRequired:     "El número de teléfono es obligatorio",
		KeyInvalidPhone: "El teléfono debe tener exactamente 9 dígitos",
	},
	FieldTutorPhone: {
		KeyInvalidPhone: "El teléfono del tutor debe tener exactamente 9 dígitos",
	},
	FieldEmail:             {KeyEmail: msgEmail, KeyPattern: msgEmail},
	FieldTutorEmail:        {KeyEmail: msgEmail, KeyPattern: msgEmail},
	FieldFirstName:         {KeyPattern: "El nombre solo puede contener letras y espacios", KeyRequired: "El nombre es obligatorio"},
	FieldLastName:          {KeyPattern: "Los apellidos solo pueden contener letras y espacios", KeyRequired: "Los apellidos son obligatorios"},
	FieldTutorFirstName:    {KeyPattern: "El nombre solo puede contener letras y espacios", KeyRequired: "El nombre del tutor es obligatorio"},
	FieldTutorLastName:     {KeyPattern: "Los apellidos solo pueden contener letras y espacios", KeyRequired: "Los apellidos del tutor son obligatorios"},
	FieldLegalRepFirstName: {KeyPattern: "El nombre solo puede contener letras y espacios", KeyRequired: "El nombre del representante es obligatorio"},
	FieldLegalRepLastName:  {KeyPattern: "Los apellidos solo pueden contener letras y espacios", KeyRequired: "Los apellidos del representante son obligatorios"},
	FieldCompanyName:       {KeyPattern: "La razón social solo puede contener letras y espacios", KeyRequired: "La razón social es obligatoria"},
	FieldCompanyDocument: {
		KeyRequired:  "El RUC es obligatorio",
		KeyMinLength: "El RUC debe tener exactamente 11 dígitos",
		KeyMaxLength: "El RUC debe tener exactamente 11 dígitos",
		KeyPattern:   "El RUC solo debe contener números",
	},
	FieldDistrict:         {KeyMinLength: "El distrito debe tener al menos 3 caracteres", KeyRequired: "El distrito es obligatorio"},
	FieldAddress:          {KeyMinLength: "Por favor proporciona una dirección más completa (mínimo 25 caracteres)", KeyRequired: "La dirección es obligatoria"},
	FieldGoodDescription:  {KeyMinLength: "Por favor describe con más detalle (mínimo 100 caracteres)", KeyRequired: "La descripción es obligatoria"},
	FieldClaimDescription: {KeyMinLength: "Por favor explica el reclamo con más detalle (mínimo 100 caracteres)", KeyRequired: "La descripción del reclamo es obligatoria"},
	FieldRequest:          {KeyMinLength: "Por favor indica claramente qué solicitas (mínimo 100 caracteres)", KeyRequired: "El pedido es obligatorio"},
	FieldReceiptType:      {KeyRequired: "Selecciona el tipo de comprobante"},
	FieldReceiptNumber: {
		KeyRequired:  "El número de comprobante es obligatorio",
		KeyPattern:   "El número solo acepta letras, números y guiones",
		KeyMinLength: "El número debe tener al menos 1 carácter",
		KeyMaxLength: "El número debe tener máximo 20 caracteres",
	},
	FieldClaimAmount: {
		KeyRequired: "El monto es obligatorio",
		KeyMin:      "El monto debe ser mayor a 0",
		KeyPattern:  "Ingrese un monto válido (máximo 2 decimales)",
	},
	FieldDocumentType:         {KeyRequired: "Selecciona el tipo de documento"},
	FieldTutorDocumentType:    {KeyRequired: "Selecciona el tipo de documento del tutor"},
	FieldLegalRepDocumentType: {KeyRequired: "Selecciona el tipo de documento del representante"},
	FieldConfirm:              {KeyRequired: "Debes aceptar los términos y condiciones"},
}

// Message builds the user-facing text for a problem. Document-number length
// and pattern problems answer with the hint of the selected type's rule.
func Message(p Problem, d Draft, types []catalog.DocumentType) string {
	if _, ok := typeFieldFor[p.Field]; ok {
		switch p.Key {
		case KeyRequired:
			return msgRequired
		case KeyMinLength, KeyMaxLength, KeyPattern:
			return d.DocumentRule(p.Field, types).Hint
		}
		return msgCheckField
	}

	if msg, ok := fieldMessages[p.Field][p.Key]; ok {
		return msg
	}

	switch p.Key {
	case KeyRequired:
		return msgRequired
	case KeyMinLength:
		return fmt.Sprintf(msgMinLengthFmt, p.Length)
	case KeyMaxLength:
		return fmt.Sprintf(msgMaxLengthFmt, p.Length)
	case KeyPattern:
		return msgPattern
	case KeyEmail:
		return msgEmail
	}
	return msgCheckField
}

// FieldError returns the message for f when it is touched and invalid, or "".
func FieldError(f Field, d Draft, types []catalog.DocumentType) string {
	if !d.IsTouched(f) {
		return ""
	}
	v, ok := ActiveRules(d, types).Check(f, d.Value(f))
	if ok {
		return ""
	}
	return Message(Problem{Field: f, Key: v.Key, Length: v.Length}, d, types)
}

// Errors maps every touched, invalid field to its message.
func Errors(d Draft, types []catalog.DocumentType) map[Field]string {
	out := map[Field]string{}
	for _, p := range Problems(d, types) {
		if d.IsTouched(p.Field) {
			out[p.Field] = Message(p, d, types)
		}
	}
	return out
}
