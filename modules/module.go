package modules

import (
	"sort"
	"strings"

	"github.com/bwmarrin/discordgo"
	"github.com/lordralex/absol/api"
	"github.com/lordralex/absol/api/logger"
)

var availableModules = make(map[string]api.Module)
var loadedModules = make(map[string]api.Module)

// Load enables the named modules, or every available one for "all". A
// module that fails to load is logged and skipped.
func Load(ds *discordgo.Session, d *api.Dispatcher, modules []string) {
	selected := make(map[string]api.Module)
	if len(modules) == 1 && strings.EqualFold(modules[0], "all") {
		for k, v := range availableModules {
			selected[k] = v
		}
	} else {
		for _, v := range modules {
			mod := availableModules[strings.ToLower(v)]
			if mod == nil {
				logger.Err().Str("module", v).Msg("module does not exist")
				continue
			}
			selected[mod.Name()] = mod
		}
	}

	for k, v := range selected {
		logger.Out().Str("module", k).Msg("loading")
		if err := v.Load(ds, d); err != nil {
			logger.Err().Str("module", k).Err(err).Msg("unable to load module")
			continue
		}
		loadedModules[k] = v
		logger.Out().Str("module", k).Msg("loaded")
	}
}

// Unload stops every loaded module.
func Unload() {
	for k, v := range loadedModules {
		v.Unload()
		logger.Out().Str("module", k).Msg("unloaded")
	}
	loadedModules = make(map[string]api.Module)
}

func Add(module api.Module) {
	availableModules[strings.ToLower(module.Name())] = module
}

// GetLoaded lists the names of the loaded modules in order.
func GetLoaded() []string {
	names := make([]string, 0, len(loadedModules))
	for k := range loadedModules {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}
