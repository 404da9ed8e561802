package usecases

import (
	"context"
	"fmt"

	"greeterbot/internal/config"
	"greeterbot/internal/entities"
)

const (
	// EchoResponse answers every inbound message
	EchoResponse = "This is a dummy response to your message."
	// LogoElementName names the image attached by the logo greeting
	LogoElementName = "restaurant_logo"
)

// Greeter sends the configured greeting on session start and a fixed echo on every message
type Greeter struct {
	variant string
	lookup  config.LookupFunc
}

type GreeterOption func(*Greeter)

// WithLookup replaces the environment lookup used on each session start
func WithLookup(lookup config.LookupFunc) GreeterOption {
	return func(g *Greeter) {
		g.lookup = lookup
	}
}

func NewGreeter(variant string, opts ...GreeterOption) (*Greeter, error) {
	switch variant {
	case config.VariantStatus, config.VariantLogo:
	default:
		return nil, fmt.Errorf("%w: %q", config.ErrUnknownVariant, variant)
	}

	g := &Greeter{variant: variant}
	for _, opt := range opts {
		opt(g)
	}
	return g, nil
}

// Register installs the greeter's hooks on l
func (g *Greeter) Register(l *Lifecycle) {
	l.OnSessionStart(g.OnSessionStart)
	l.OnMessage(g.OnMessage)
}

func (g *Greeter) Variant() string {
	return g.variant
}

// Greeting renders the greeting from the configuration as it is right now
func (g *Greeter) Greeting() entities.Outbound {
	var r config.Restaurant
	if g.lookup != nil {
		r = config.LoadRestaurantFrom(g.lookup)
	} else {
		r = config.LoadRestaurant()
	}

	if g.variant == config.VariantLogo {
		return RenderLogo(r)
	}
	return RenderStatus(r)
}

func (g *Greeter) OnSessionStart(ctx context.Context, s *Session) error {
	return s.Send(ctx, g.Greeting())
}

// OnMessage ignores the content of msg
func (g *Greeter) OnMessage(ctx context.Context, s *Session, _ entities.Message) error {
	return s.Send(ctx, entities.Outbound{Content: EchoResponse})
}

// RenderStatus lists the deployment metadata with no attachments
func RenderStatus(r config.Restaurant) entities.Outbound {
	return entities.Outbound{
		Content: fmt.Sprintf("\nDeployment: %s\nLogo URL: %s\nRestaurant: %s\nDescription: %s\n",
			r.DeploymentName, r.LogoURL, r.Name, r.Description),
	}
}

// RenderLogo welcomes the user and attaches the logo image
func RenderLogo(r config.Restaurant) entities.Outbound {
	return entities.Outbound{
		Content:  fmt.Sprintf("Welcome to %s!\n\n%s", r.Name, r.Description),
		Elements: []entities.Element{entities.NewImage(r.LogoURL, LogoElementName)},
	}
}
