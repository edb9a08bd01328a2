package scene

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrUnknownScene is returned when a scene name is not registered
var ErrUnknownScene = errors.New("unknown scene")

// SceneInfo describes a built-in scene
type SceneInfo struct {
	ID          string `json:"id"`          // Unique identifier
	DisplayName string `json:"displayName"` // UI display name
	Description string `json:"description"` // Optional description
	Primitives  int    `json:"primitives"`  // Number of shapes
}

type sceneEntry struct {
	description string
	build       func() *Scene
}

var builtinScenes = map[string]sceneEntry{
	"default": {"Ground, diffuse center sphere and two metal spheres", NewDefaultScene},
	"single":  {"One diffuse sphere on the ground", NewSingleSphereScene},
	"mirrors": {"Three metal spheres sharing one material", NewSharedMaterialScene},
}

// Create builds the named built-in scene
func Create(name string) (*Scene, error) {
	entry, ok := builtinScenes[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return nil, fmt.Errorf("%w: %q (available: %s)", ErrUnknownScene, name, strings.Join(Names(), ", "))
	}
	return entry.build(), nil
}

// Names returns the sorted names of the built-in scenes
func Names() []string {
	names := make([]string, 0, len(builtinScenes))
	for name := range builtinScenes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ListScenes returns metadata for every built-in scene, sorted by ID
func ListScenes() []SceneInfo {
	scenes := make([]SceneInfo, 0, len(builtinScenes))
	for _, name := range Names() {
		entry := builtinScenes[name]
		scenes = append(scenes, SceneInfo{
			ID:          name,
			DisplayName: titleCase(name),
			Description: entry.description,
			Primitives:  entry.build().GetPrimitiveCount(),
		})
	}
	return scenes
}

// titleCase converts a scene name like "my-scene" to "My Scene"
func titleCase(s string) string {
	// Replace hyphens and underscores with spaces
	s = strings.ReplaceAll(s, "-", " ")
	s = strings.ReplaceAll(s, "_", " ")

	// Title case each word
	words := strings.Fields(s)
	for i, word := range words {
		if len(word) > 0 {
			words[i] = strings.ToUpper(word[:1]) + strings.ToLower(word[1:])
		}
	}

	return strings.Join(words, " ")
}
