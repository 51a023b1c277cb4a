package runner

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"

	"github.com/dimiro1/banner"
)

type State int

const (
	StateNew State = iota
	StateStarting
	StateRunning
	StateDraining
	StateStopped
)

func (s State) String() string {
	switch s {
	case StateNew:
		return "new"
	case StateStarting:
		return "starting"
	case StateRunning:
		return "running"
	case StateDraining:
		return "draining"
	case StateStopped:
		return "stopped"
	default:
		return "unknown"
	}
}

type Runner interface {
	Run(ctx context.Context) error
	Stop() error
	State() State
}

// Hooks run around the serve loop. A failing OnStart aborts Run and still
// drains whatever was started.
type Hooks struct {
	OnStart func(ctx context.Context) error
	OnStop  func()
}

type Drainer interface {
	Drain() error
}

// DrainFunc adapts a plain function to Drainer.
type DrainFunc func() error

func (f DrainFunc) Drain() error { return f() }

// Drainers drains each member in order and joins their errors. The HTTP
// server goes first so no new events reach the observers being flushed.
type Drainers []Drainer

func (d Drainers) Drain() error {
	var errs []error
	for _, dr := range d {
		if dr == nil {
			continue
		}
		if err := dr.Drain(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

const Version = "dev"

var bannerOut io.Writer = os.Stdout

func PrintBanner(title string) {
	tpl := "{{ .Title \"" + title + "\" \"\" 0 }}\nVersion: " + Version + "\n"
	banner.Init(bannerOut, true, false, bytes.NewBufferString(tpl))
}
