package contact

import "fmt"

// Form field names as they appear in the HTML form.
const (
	FieldName     = "name"
	FieldEmail    = "email"
	FieldWhatsApp = "whatsapp"
	FieldAddress  = "address"
	FieldMessage  = "message"
)

// Form is the visitor's contact form. Every field is required.
type Form struct {
	Name     string `form:"name" binding:"required"`
	Email    string `form:"email" binding:"required,email"`
	WhatsApp string `form:"whatsapp" binding:"required"`
	Address  string `form:"address" binding:"required"`
	Message  string `form:"message" binding:"required"`
}

// Missing returns the names of the empty fields in form order.
func (f Form) Missing() []string {
	var missing []string
	for _, field := range []struct {
		name, value string
	}{
		{FieldName, f.Name},
		{FieldEmail, f.Email},
		{FieldWhatsApp, f.WhatsApp},
		{FieldAddress, f.Address},
		{FieldMessage, f.Message},
	} {
		if field.value == "" {
			missing = append(missing, field.name)
		}
	}
	return missing
}

// Set applies a single input event.
func (f *Form) Set(field, value string) error {
	switch field {
	case FieldName:
		f.Name = value
	case FieldEmail:
		f.Email = value
	case FieldWhatsApp:
		f.WhatsApp = value
	case FieldAddress:
		f.Address = value
	case FieldMessage:
		f.Message = value
	default:
		return fmt.Errorf("contact: unknown field %q", field)
	}
	return nil
}

// Message is what gets handed to the relay.
type Message struct {
	FromName       string
	FromEmail      string
	FromAddress    string
	WhatsAppNumber string
	Body           string
	ToEmail        string
}

func (f Form) message(recipient string) Message {
	return Message{
		FromName:       f.Name,
		FromEmail:      f.Email,
		FromAddress:    f.Address,
		WhatsAppNumber: f.WhatsApp,
		Body:           f.Message,
		ToEmail:        recipient,
	}
}
