package api

import (
	"strings"
	"sync"

	"github.com/bwmarrin/discordgo"
	"github.com/lordralex/absol/api/logger"
)

type EventKind int

const (
	CommandEvent EventKind = iota
	ButtonEvent
	FormSubmitEvent
)

func (k EventKind) String() string {
	switch k {
	case CommandEvent:
		return "command"
	case ButtonEvent:
		return "button"
	case FormSubmitEvent:
		return "form"
	}
	return "unknown"
}

// StartupFunc runs every time the gateway reports Ready.
type StartupFunc func(ds *discordgo.Session, r *discordgo.Ready)

// InteractionFunc handles one routed interaction. id is nil for slash
// commands.
type InteractionFunc func(ds *discordgo.Session, i *discordgo.InteractionCreate, id *CustomId)

type route struct {
	kind EventKind
	name string
}

// Dispatcher is the table from event kind and name to handler. Modules fill
// it while loading; afterwards it is only read.
type Dispatcher struct {
	mu       sync.RWMutex
	startup  []StartupFunc
	handlers map[route]InteractionFunc
}

func NewDispatcher() *Dispatcher {
	return &Dispatcher{handlers: make(map[route]InteractionFunc)}
}

func (d *Dispatcher) OnStartup(fn StartupFunc) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.startup = append(d.startup, fn)
}

func (d *Dispatcher) OnCommand(name string, fn InteractionFunc) {
	d.register(CommandEvent, name, fn)
}

// OnButton registers fn for buttons whose custom id route is module:action.
func (d *Dispatcher) OnButton(module, action string, fn InteractionFunc) {
	d.register(ButtonEvent, module+":"+action, fn)
}

func (d *Dispatcher) OnFormSubmit(module, action string, fn InteractionFunc) {
	d.register(FormSubmitEvent, module+":"+action, fn)
}

func (d *Dispatcher) register(kind EventKind, name string, fn InteractionFunc) {
	d.mu.Lock()
	defer d.mu.Unlock()
	key := route{kind: kind, name: strings.ToLower(name)}
	if _, exists := d.handlers[key]; exists {
		logger.Warn().Str("kind", kind.String()).Str("name", name).Msg("replacing existing handler")
	}
	d.handlers[key] = fn
}

func (d *Dispatcher) Startup(ds *discordgo.Session, r *discordgo.Ready) {
	d.mu.RLock()
	funcs := append([]StartupFunc(nil), d.startup...)
	d.mu.RUnlock()

	for _, fn := range funcs {
		fn(ds, r)
	}
}

// Dispatch routes an interaction to its handler and reports whether one
// was found.
func (d *Dispatcher) Dispatch(ds *discordgo.Session, i *discordgo.InteractionCreate) bool {
	var kind EventKind
	var name string
	var id *CustomId
	var err error

	switch i.Type {
	case discordgo.InteractionApplicationCommand:
		kind = CommandEvent
		name = i.ApplicationCommandData().Name
	case discordgo.InteractionMessageComponent:
		kind = ButtonEvent
		id, err = ParseCustomId(i.MessageComponentData().CustomID)
	case discordgo.InteractionModalSubmit:
		kind = FormSubmitEvent
		id, err = ParseCustomId(i.ModalSubmitData().CustomID)
	default:
		return false
	}

	if err != nil {
		logger.Debug().Err(err).Msg("ignoring interaction")
		return false
	}
	if id != nil {
		name = id.Route()
	}

	d.mu.RLock()
	fn, ok := d.handlers[route{kind: kind, name: strings.ToLower(name)}]
	d.mu.RUnlock()
	if !ok {
		return false
	}

	fn(ds, i, id)
	return true
}
