package commands

import (
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/urfave/cli/v3"

	"github.com/nhle/tracker/internal/lifecycle"
	"github.com/nhle/tracker/internal/model"
	"github.com/nhle/tracker/internal/period"
	"github.com/nhle/tracker/internal/store"
)

// ErrNoOwner is returned by commands that need a user when none is set.
var ErrNoOwner = errors.New("no user selected: pass --user or set owner in the config file")

type Flags struct {
	LogLevel   string
	LogFile    string
	ConfigPath string
	DataDir    string
	User       string

	// Populated in the Before hook and available to all commands
	Config *model.AppConfig
	Store  store.Store
	Clock  func() time.Time
	Log    zerolog.Logger
}

// Owner returns the user the command acts for.
func (f *Flags) Owner() (string, error) {
	if f.User != "" {
		return f.User, nil
	}
	if f.Config != nil && f.Config.Owner != "" {
		return f.Config.Owner, nil
	}
	return "", ErrNoOwner
}

// Tracker returns the lifecycle tracker for kind.
func (f *Flags) Tracker(kind model.Kind) *lifecycle.Tracker {
	return lifecycle.New(f.Store, lifecycle.PolicyFor(kind), f.Log, f.now)
}

func (f *Flags) now() time.Time {
	if f.Clock != nil {
		return f.Clock()
	}
	return time.Now()
}

// periodFlags selects the record a command works on.
type periodFlags struct {
	weekly bool
	date   string
}

func (p *periodFlags) flags() []cli.Flag {
	return []cli.Flag{
		&cli.BoolFlag{
			Name:        "weekly",
			Aliases:     []string{"w"},
			Usage:       "work on the weekly goals instead of the daily list",
			Destination: &p.weekly,
		},
		&cli.StringFlag{
			Name:        "date",
			Aliases:     []string{"d"},
			Usage:       "any date inside the period (YYYY-MM-DD), defaults to today",
			Destination: &p.date,
		},
	}
}

func (p *periodFlags) kind() model.Kind {
	if p.weekly {
		return model.KindWeekly
	}
	return model.KindDaily
}

// target is the owner, tracker and period key a command acts on.
type target struct {
	owner   string
	tracker *lifecycle.Tracker
	key     string
}

func (p *periodFlags) resolve(f *Flags) (target, error) {
	owner, err := f.Owner()
	if err != nil {
		return target{}, err
	}

	tr := f.Tracker(p.kind())
	at := f.now()
	if p.date != "" {
		at, err = period.ParseKey(p.date)
		if err != nil {
			return target{}, fmt.Errorf("parse --date: %w", err)
		}
	}

	return target{owner: owner, tracker: tr, key: tr.Key(at)}, nil
}

// label describes the target for notices.
func (t target) label() string {
	return fmt.Sprintf("%s record %s", t.tracker.Policy().Kind, t.key)
}
