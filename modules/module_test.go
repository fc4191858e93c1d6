package modules

import (
	"errors"
	"reflect"
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/lordralex/absol/api"
)

type fakeModule struct {
	name     string
	err      error
	loaded   bool
	unloaded bool
}

func (f *fakeModule) Name() string { return f.name }

func (f *fakeModule) Load(*discordgo.Session, *api.Dispatcher) error {
	f.loaded = f.err == nil
	return f.err
}

func (f *fakeModule) Unload() { f.unloaded = true }

func reset(mods ...api.Module) {
	availableModules = make(map[string]api.Module)
	loadedModules = make(map[string]api.Module)
	for _, v := range mods {
		Add(v)
	}
}

func TestLoad(t *testing.T) {
	t.Run("named modules", func(t *testing.T) {
		first, second := &fakeModule{name: "first"}, &fakeModule{name: "second"}
		reset(first, second)

		Load(nil, api.NewDispatcher(), []string{"First", "missing"})
		if !first.loaded || second.loaded {
			t.Errorf("loaded first=%v second=%v", first.loaded, second.loaded)
		}
		if got := GetLoaded(); !reflect.DeepEqual(got, []string{"first"}) {
			t.Errorf("GetLoaded() = %v", got)
		}
	})

	t.Run("all", func(t *testing.T) {
		first, second := &fakeModule{name: "first"}, &fakeModule{name: "second"}
		reset(first, second)

		Load(nil, api.NewDispatcher(), []string{"all"})
		if got := GetLoaded(); !reflect.DeepEqual(got, []string{"first", "second"}) {
			t.Errorf("GetLoaded() = %v", got)
		}
	})

	t.Run("failed module is skipped", func(t *testing.T) {
		broken := &fakeModule{name: "broken", err: errors.New("no database")}
		reset(broken)

		Load(nil, api.NewDispatcher(), []string{"all"})
		if len(GetLoaded()) != 0 {
			t.Errorf("GetLoaded() = %v", GetLoaded())
		}
	})
}

func TestUnload(t *testing.T) {
	mod := &fakeModule{name: "first"}
	reset(mod)
	Load(nil, api.NewDispatcher(), []string{"all"})

	Unload()
	if !mod.unloaded {
		t.Error("module was not unloaded")
	}
	if len(GetLoaded()) != 0 {
		t.Errorf("GetLoaded() = %v after Unload", GetLoaded())
	}
}
