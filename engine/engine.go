package engine

import (
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/spaghettifunk/anima-hengine/engine/config"
	"github.com/spaghettifunk/anima-hengine/engine/content"
	"github.com/spaghettifunk/anima-hengine/engine/core"
	"github.com/spaghettifunk/anima-hengine/engine/houdini"
	"github.com/spaghettifunk/anima-hengine/engine/output"
	"github.com/spaghettifunk/anima-hengine/engine/scene"
	"github.com/spaghettifunk/anima-hengine/engine/skeletal"
)

type Stage uint8

const (
	// Engine is in an uninitialized state
	EngineStageUninitialized Stage = iota
	// Engine is currently initializing
	EngineStageInitializing
	// Engine initialization is complete
	EngineStageInitialized
	// Engine is currently cooking
	EngineStageRunning
	// Engine is in the process of shutting down
	EngineStageShuttingDown
)

func (s Stage) String() string {
	switch s {
	case EngineStageInitializing:
		return "initializing"
	case EngineStageInitialized:
		return "initialized"
	case EngineStageRunning:
		return "running"
	case EngineStageShuttingDown:
		return "shutting down"
	}
	return "uninitialized"
}

// Engine drives cooks: it translates the outputs of a solver session into the
// content store and cleans up what a cook left behind.
type Engine struct {
	currentStage Stage
	session      houdini.Session
	store        content.Store
	clock        *core.Clock

	mutex   sync.RWMutex
	config  config.Config
	watcher *config.Watcher
}

func New(cfg config.Config, session houdini.Session, store content.Store) (*Engine, error) {
	if session == nil || store == nil {
		return nil, fmt.Errorf("engine needs a session and a content store")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Engine{
		currentStage: EngineStageUninitialized,
		session:      session,
		store:        store,
		clock:        core.NewClock(),
		config:       cfg,
	}, nil
}

// Initialize applies the configuration. When configPath is set the file
// replaces the configuration given to New and is watched for changes.
func (e *Engine) Initialize(configPath string) error {
	if e.currentStage != EngineStageUninitialized {
		return fmt.Errorf("engine is %s, cannot initialize", e.currentStage)
	}
	e.currentStage = EngineStageInitializing

	if configPath != "" {
		w, err := config.NewWatcher(configPath)
		if err != nil {
			e.currentStage = EngineStageUninitialized
			return err
		}
		w.OnChange(e.applyConfig)
		e.watcher = w
		e.applyConfig(w.Current())
	} else {
		e.applyConfig(e.Config())
	}

	e.currentStage = EngineStageInitialized
	core.LogInfo("engine initialized")
	return nil
}

func (e *Engine) applyConfig(cfg config.Config) {
	e.mutex.Lock()
	e.config = cfg
	e.mutex.Unlock()
	core.SetLogLevel(cfg.Log.Level)
}

// Config returns a snapshot of the current configuration.
func (e *Engine) Config() config.Config {
	e.mutex.RLock()
	defer e.mutex.RUnlock()
	return e.config
}

func (e *Engine) Stage() Stage {
	return e.currentStage
}

// Cook translates the output's parts, replaces its objects and deletes the
// assets and components the previous cook produced that are no longer used.
// It reports whether every bundle translated.
func (e *Engine) Cook(out *output.Output, owner scene.ComponentOwner, materials content.MaterialMap) (bool, error) {
	if e.currentStage != EngineStageInitialized {
		return false, fmt.Errorf("engine is %s, cannot cook", e.currentStage)
	}
	e.currentStage = EngineStageRunning
	defer func() { e.currentStage = EngineStageInitialized }()

	cfg := e.Config()
	e.clock.Start()

	translator := skeletal.NewTranslator(e.session, e.store, cfg.Translator)
	success := translator.CreateAllSkeletalMeshesAndComponentsFromHoudiniOutput(out, cfg.PackageParams(out.AssetName), materials, owner)
	e.cleanStale(out, owner)

	e.clock.Stop()
	core.LogInfo("cooked '%s' in %s: %d objects", out.AssetName, e.clock.Elapsed(), len(out.Objects))
	if !success {
		core.LogWarn("'%s': some skeletal meshes failed to translate", out.AssetName)
	}
	return success, nil
}

func (e *Engine) cleanStale(out *output.Output, owner scene.ComponentOwner) {
	for _, id := range out.Stale.Keys() {
		obj := out.Stale[id]
		if owner != nil && obj.OutputComponent != uuid.Nil && !out.Objects.UsesComponent(obj.OutputComponent) {
			if err := owner.RemoveComponent(obj.OutputComponent); err != nil {
				core.LogWarn("%s: %s", id, err)
			}
		}
		if obj.OutputObject.IsValid() && !out.Objects.References(obj.OutputObject) {
			if err := e.store.DeleteAsset(obj.OutputObject); err != nil {
				core.LogWarn("%s: cannot delete stale %s: %s", id, obj.OutputObject, err)
				continue
			}
			core.LogDebug("%s: deleted stale %s", id, obj.OutputObject)
		}
		// named skeletons belong to the user
		if obj.OwnsSkeleton && obj.Skeleton.IsValid() && !out.Objects.ReferencesSkeleton(obj.Skeleton) {
			if err := e.store.DeleteAsset(obj.Skeleton); err != nil {
				core.LogWarn("%s: cannot delete stale %s: %s", id, obj.Skeleton, err)
				continue
			}
			core.LogDebug("%s: deleted stale %s", id, obj.Skeleton)
		}
	}
	out.Stale = make(output.Map)
}

func (e *Engine) Shutdown() error {
	e.currentStage = EngineStageShuttingDown
	if e.watcher != nil {
		if err := e.watcher.Close(); err != nil {
			return err
		}
		e.watcher = nil
	}
	e.currentStage = EngineStageUninitialized
	core.LogInfo("engine shut down")
	return nil
}
