package content

import (
	"fmt"
	"path"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/spaghettifunk/anima-hengine/engine/core"
)

const defaultMaterialPath = "/Engine/EngineMaterials/DefaultMaterial.DefaultMaterial"

type entry struct {
	pkg      *packageEntry
	class    AssetClass
	guid     uuid.UUID
	path     string
	skeleton *Skeleton
	mesh     *SkeletalMesh
	material *Material
}

type packageEntry struct {
	path  string
	dirty bool
}

// MemoryStore is an in-process content system. It keeps every object in a
// handle arena so callers only ever hold opaque references.
type MemoryStore struct {
	mutex sync.RWMutex

	objects *core.Arena[*entry]
	assets  map[string]core.Handle

	packageHandles map[string]core.Handle
	packageArena   *core.Arena[*packageEntry]

	defaultMaterial AssetRef
}

var _ Store = (*MemoryStore)(nil)

func NewMemoryStore() *MemoryStore {
	ms := &MemoryStore{
		objects:        core.NewArena[*entry](64),
		assets:         make(map[string]core.Handle),
		packageHandles: make(map[string]core.Handle),
		packageArena:   core.NewArena[*packageEntry](16),
	}
	ref, err := ms.CreateMaterial(defaultMaterialPath)
	if err != nil {
		// the store is empty, this cannot collide
		panic(err)
	}
	ms.defaultMaterial = ref
	return ms
}

func (ms *MemoryStore) FindPackage(p string) (PackageRef, bool) {
	ms.mutex.RLock()
	defer ms.mutex.RUnlock()

	h, ok := ms.packageHandles[path.Clean(p)]
	if !ok {
		return PackageRef{Handle: core.InvalidHandle()}, false
	}
	return PackageRef{Handle: h, Path: path.Clean(p)}, true
}

func (ms *MemoryStore) FindOrCreatePackage(p string) (PackageRef, error) {
	if p == "" || !path.IsAbs(p) {
		return PackageRef{Handle: core.InvalidHandle()}, fmt.Errorf("%w: '%s' is not an absolute package path", core.ErrPackageCreationFailed, p)
	}
	if ref, ok := ms.FindPackage(p); ok {
		return ref, nil
	}

	ms.mutex.Lock()
	defer ms.mutex.Unlock()

	clean := path.Clean(p)
	h := ms.packageArena.Acquire(&packageEntry{path: clean})
	ms.packageHandles[clean] = h
	core.LogDebug("created package '%s'", clean)
	return PackageRef{Handle: h, Path: clean}, nil
}

func (ms *MemoryStore) FindAsset(objectPath string, class AssetClass) (AssetRef, bool) {
	ms.mutex.RLock()
	defer ms.mutex.RUnlock()

	h, ok := ms.assets[ObjectPath(objectPath)]
	if !ok {
		return NullAsset(), false
	}
	e, err := ms.objects.Lookup(h)
	if err != nil || e.class != class {
		return NullAsset(), false
	}
	return ms.ref(h, e), true
}

func (ms *MemoryStore) FindOrCreateAsset(pkg PackageRef, name string, class AssetClass) (AssetRef, bool, error) {
	ms.mutex.Lock()
	defer ms.mutex.Unlock()

	pe, err := ms.packageArena.Lookup(pkg.Handle)
	if err != nil {
		return NullAsset(), false, fmt.Errorf("%w: package '%s': %w", core.ErrPackageCreationFailed, pkg.Path, err)
	}

	objectPath := pe.path + "." + name
	if h, ok := ms.assets[objectPath]; ok {
		e, err := ms.objects.Lookup(h)
		if err != nil {
			return NullAsset(), false, err
		}
		if e.class != class {
			return NullAsset(), false, fmt.Errorf("%w: '%s' is a %s, not a %s", core.ErrAssetCommitFailed, objectPath, e.class, class)
		}
		return ms.ref(h, e), false, nil
	}

	e := &entry{
		pkg:   pe,
		class: class,
		guid:  uuid.New(),
		path:  objectPath,
	}
	switch class {
	case ClassSkeleton:
		e.skeleton = &Skeleton{GUID: e.guid, Name: name, Path: objectPath}
	case ClassSkeletalMesh:
		e.mesh = &SkeletalMesh{GUID: e.guid, Name: name, Path: objectPath}
	case ClassMaterial:
		e.material = &Material{GUID: e.guid, Name: name, Path: objectPath}
	default:
		return NullAsset(), false, fmt.Errorf("%w: cannot create an asset of class %s", core.ErrAssetCommitFailed, class)
	}

	h := ms.objects.Acquire(e)
	ms.assets[objectPath] = h
	core.LogDebug("created %s '%s'", class, objectPath)
	return ms.ref(h, e), true, nil
}

// CreateMaterial registers a material asset at the object or package path.
func (ms *MemoryStore) CreateMaterial(p string) (AssetRef, error) {
	objectPath := ObjectPath(p)
	pkg, err := ms.FindOrCreatePackage(PackageOf(objectPath))
	if err != nil {
		return NullAsset(), err
	}
	ref, _, err := ms.FindOrCreateAsset(pkg, path.Base(pkg.Path), ClassMaterial)
	return ref, err
}

func (ms *MemoryStore) ref(h core.Handle, e *entry) AssetRef {
	return AssetRef{Handle: h, GUID: e.guid, Path: e.path, Class: e.class}
}

func (ms *MemoryStore) lookup(ref AssetRef, class AssetClass) (*entry, error) {
	e, err := ms.objects.Lookup(ref.Handle)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", core.ErrAssetNotFound, ref, err)
	}
	if e.guid != ref.GUID || e.class != class {
		return nil, fmt.Errorf("%w: %s does not resolve to a %s", core.ErrAssetNotFound, ref, class)
	}
	return e, nil
}

func (ms *MemoryStore) Skeleton(ref AssetRef) (*Skeleton, error) {
	ms.mutex.RLock()
	defer ms.mutex.RUnlock()

	e, err := ms.lookup(ref, ClassSkeleton)
	if err != nil {
		return nil, err
	}
	return e.skeleton, nil
}

func (ms *MemoryStore) SkeletalMesh(ref AssetRef) (*SkeletalMesh, error) {
	ms.mutex.RLock()
	defer ms.mutex.RUnlock()

	e, err := ms.lookup(ref, ClassSkeletalMesh)
	if err != nil {
		return nil, err
	}
	return e.mesh, nil
}

func (ms *MemoryStore) Material(ref AssetRef) (*Material, error) {
	ms.mutex.RLock()
	defer ms.mutex.RUnlock()

	e, err := ms.lookup(ref, ClassMaterial)
	if err != nil {
		return nil, err
	}
	return e.material, nil
}

func (ms *MemoryStore) DefaultMaterial() AssetRef {
	return ms.defaultMaterial
}

func (ms *MemoryStore) BuildRenderData(ref AssetRef) error {
	mesh, err := ms.SkeletalMesh(ref)
	if err != nil {
		return err
	}
	return mesh.BuildRenderData()
}

func (ms *MemoryStore) Commit(ref AssetRef) error {
	ms.mutex.Lock()
	defer ms.mutex.Unlock()

	e, err := ms.objects.Lookup(ref.Handle)
	if err != nil || e.guid != ref.GUID {
		return fmt.Errorf("%w: %s is not registered", core.ErrAssetCommitFailed, ref)
	}
	switch e.class {
	case ClassSkeletalMesh:
		if e.mesh.RenderData == nil {
			return fmt.Errorf("%w: %s has no render data", core.ErrAssetCommitFailed, ref)
		}
		e.mesh.Dirty = true
		e.mesh.Revision++
	case ClassSkeleton:
		e.skeleton.Dirty = true
	}
	e.pkg.dirty = true
	return nil
}

func (ms *MemoryStore) DeleteAsset(ref AssetRef) error {
	ms.mutex.Lock()
	defer ms.mutex.Unlock()

	e, err := ms.objects.Lookup(ref.Handle)
	if err != nil || e.guid != ref.GUID {
		return fmt.Errorf("%w: %s", core.ErrAssetNotFound, ref)
	}
	if ref.GUID == ms.defaultMaterial.GUID {
		return fmt.Errorf("the default material cannot be deleted")
	}
	delete(ms.assets, e.path)
	core.LogDebug("deleted %s '%s'", e.class, e.path)
	return ms.objects.Release(ref.Handle)
}

// Assets lists the object paths of every live asset of the class, sorted.
func (ms *MemoryStore) Assets(class AssetClass) []string {
	ms.mutex.RLock()
	defer ms.mutex.RUnlock()

	var out []string
	for p, h := range ms.assets {
		if e, err := ms.objects.Lookup(h); err == nil && e.class == class {
			out = append(out, p)
		}
	}
	sort.Strings(out)
	return out
}

// DirtyPackages lists the paths of the packages holding committed changes,
// sorted.
func (ms *MemoryStore) DirtyPackages() []string {
	ms.mutex.RLock()
	defer ms.mutex.RUnlock()

	var out []string
	for p, h := range ms.packageHandles {
		if pe, err := ms.packageArena.Lookup(h); err == nil && pe.dirty {
			out = append(out, p)
		}
	}
	sort.Strings(out)
	return out
}
