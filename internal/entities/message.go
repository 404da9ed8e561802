package entities

// ElementImage is the only element kind the greeter produces.
const ElementImage = "image"

type Message struct {
	ID        string
	From      string
	Content   string
	Platform  string // e.g., "whatsapp", "web", "telegram"
	SessionID string
}

// Element is a named resource rendered by the host next to the message text
type Element struct {
	Type string `json:"type"`
	Name string `json:"name"`
	URL  string `json:"url"`
}

// NewImage builds an image element referencing url. The url is not validated.
func NewImage(url, name string) Element {
	return Element{Type: ElementImage, Name: name, URL: url}
}

// Outbound is a unit of content sent to the user through a host channel
type Outbound struct {
	Content  string    `json:"content"`
	Elements []Element `json:"elements,omitempty"`
}

// Images returns the image elements attached to the message
func (o Outbound) Images() []Element {
	var images []Element
	for _, el := range o.Elements {
		if el.Type == ElementImage {
			images = append(images, el)
		}
	}
	return images
}

// Platforms hosting the greeter
const (
	PlatformWeb      = "web"
	PlatformTelegram = "telegram"
	PlatformWhatsApp = "whatsapp"
)
