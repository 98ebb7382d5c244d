package scene

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/df07/go-pathtracer/pkg/geometry"
	"github.com/df07/go-pathtracer/pkg/loaders"
)

// SceneInfo represents a discovered scene with its metadata
type SceneInfo struct {
	ID          string `json:"id"`          // Unique identifier
	Name        string `json:"name"`        // Scene name
	Description string `json:"description"` // Optional description
	Group       string `json:"group"`       // Grouping category
	Type        string `json:"type"`        // "builtin" or "mesh"
	FilePath    string `json:"filePath"`    // Path to the mesh file (mesh type only)
}

// SceneGroup represents a group of related scenes
type SceneGroup struct {
	Name   string      `json:"name"`
	Scenes []SceneInfo `json:"scenes"`
}

// ScenesResponse represents the complete response for /api/scenes
type ScenesResponse struct {
	Groups []SceneGroup `json:"groups"`
}

const (
	builtInGroup  = "Built-in Scenes"
	meshGroup     = "Mesh Scenes"
	meshIDPrefix  = "mesh:"
	scenesDirName = "scenes"
	builtInType   = "builtin"
	meshSceneType = "mesh"
)

type builtInScene struct {
	info  SceneInfo
	build func(cameraOverrides ...geometry.CameraConfig) *Scene
}

var builtInScenes = []builtInScene{
	{
		info:  SceneInfo{ID: "default", Name: "Default Scene", Description: "Metallic cube, mirror sphere and emissive spheres over a blue floor"},
		build: NewDefaultScene,
	},
	{
		info:  SceneInfo{ID: "spheres", Name: "Glowing Spheres", Description: "Emissive spheres half sunk into a green plane"},
		build: NewSpheresScene,
	},
	{
		info:  SceneInfo{ID: "triangles", Name: "Triangles", Description: "Pyramid and a floating emissive triangle"},
		build: NewTrianglesScene,
	},
}

// Names returns the IDs of the built-in scenes
func Names() []string {
	names := make([]string, len(builtInScenes))
	for i, s := range builtInScenes {
		names[i] = s.info.ID
	}
	return names
}

// Lookup builds a scene by ID. Built-in IDs are tried first; "mesh:<name>" resolves
// against the scenes directory and any other value is treated as a mesh file path.
func Lookup(id string, cameraOverrides ...geometry.CameraConfig) (*Scene, error) {
	for _, s := range builtInScenes {
		if s.info.ID == id {
			return s.build(cameraOverrides...), nil
		}
	}

	if strings.HasPrefix(id, meshIDPrefix) {
		meshScenes, err := ListMeshScenes()
		if err != nil {
			return nil, err
		}
		for _, info := range meshScenes {
			if info.ID == id {
				return NewMeshFileScene(info.FilePath, cameraOverrides...)
			}
		}
		return nil, fmt.Errorf("unknown mesh scene %q", id)
	}

	if loaders.IsModelFile(id) {
		return NewMeshFileScene(id, cameraOverrides...)
	}
	return nil, fmt.Errorf("unknown scene %q (available: %s)", id, strings.Join(Names(), ", "))
}

// ListMeshScenes scans the scenes directory for mesh files
func ListMeshScenes() ([]SceneInfo, error) {
	// Try different possible paths for scenes directory
	var scenesDir string
	for _, path := range []string{scenesDirName, filepath.Join("..", scenesDirName)} {
		if info, err := os.Stat(path); err == nil && info.IsDir() {
			scenesDir = path
			break
		}
	}
	if scenesDir == "" {
		return []SceneInfo{}, nil
	}
	return listMeshScenesIn(scenesDir)
}

func listMeshScenesIn(dir string) ([]SceneInfo, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to scan scenes directory: %w", err)
	}

	scenes := []SceneInfo{}
	for _, entry := range entries {
		if entry.IsDir() || !loaders.IsModelFile(entry.Name()) {
			continue
		}
		info, err := ParseMeshMetadata(filepath.Join(dir, entry.Name()))
		if err != nil {
			// Keep the fallback metadata, the file itself may still load
			fmt.Printf("Warning: failed to parse metadata for %s: %v\n", entry.Name(), err)
		}
		scenes = append(scenes, info)
	}

	sort.Slice(scenes, func(i, j int) bool {
		return scenes[i].Name < scenes[j].Name
	})
	return scenes, nil
}

// ParseMeshMetadata derives scene metadata from a mesh file. OBJ and ASCII PLY files may
// carry "# Scene:", "# Description:" and "# Group:" header comments; other files get
// values derived from the file name.
func ParseMeshMetadata(filePath string) (SceneInfo, error) {
	filename := filepath.Base(filePath)
	nameWithoutExt := strings.TrimSuffix(filename, filepath.Ext(filename))

	info := SceneInfo{
		ID:       meshIDPrefix + nameWithoutExt,
		Name:     titleCase(nameWithoutExt),
		Group:    meshGroup,
		Type:     meshSceneType,
		FilePath: filePath,
	}

	ext := strings.ToLower(filepath.Ext(filename))
	if ext != ".obj" && ext != ".ply" {
		return info, nil
	}

	file, err := os.Open(filePath)
	if err != nil {
		return info, nil
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "ply" || strings.HasPrefix(line, "format ") {
			continue
		}

		var content string
		switch {
		case strings.HasPrefix(line, "# "):
			content = strings.TrimPrefix(line, "# ")
		case strings.HasPrefix(line, "comment "):
			content = strings.TrimPrefix(line, "comment ")
		default:
			// Stop parsing at first non-comment line
			return info, scanner.Err()
		}

		if v, ok := strings.CutPrefix(content, "Scene:"); ok {
			info.Name = strings.TrimSpace(v)
		} else if v, ok := strings.CutPrefix(content, "Description:"); ok {
			info.Description = strings.TrimSpace(v)
		} else if v, ok := strings.CutPrefix(content, "Group:"); ok {
			info.Group = strings.TrimSpace(v)
		}
	}
	return info, scanner.Err()
}

// ListAllScenes returns both built-in and mesh scenes, grouped by category
func ListAllScenes() (ScenesResponse, error) {
	var response ScenesResponse

	allScenes := make([]SceneInfo, 0, len(builtInScenes))
	for _, s := range builtInScenes {
		info := s.info
		info.Group = builtInGroup
		info.Type = builtInType
		allScenes = append(allScenes, info)
	}

	meshScenes, err := ListMeshScenes()
	if err != nil {
		return response, fmt.Errorf("failed to list mesh scenes: %w", err)
	}
	allScenes = append(allScenes, meshScenes...)

	// Group scenes by their Group field
	groupMap := make(map[string][]SceneInfo)
	for _, s := range allScenes {
		groupMap[s.Group] = append(groupMap[s.Group], s)
	}

	// Built-in first, then alphabetical
	var groupNames []string
	for groupName := range groupMap {
		if groupName != builtInGroup {
			groupNames = append(groupNames, groupName)
		}
	}
	sort.Strings(groupNames)

	response.Groups = append(response.Groups, SceneGroup{Name: builtInGroup, Scenes: groupMap[builtInGroup]})
	for _, groupName := range groupNames {
		response.Groups = append(response.Groups, SceneGroup{Name: groupName, Scenes: groupMap[groupName]})
	}

	return response, nil
}

// titleCase converts a filename-style string to title case
// e.g., "utah-teapot" -> "Utah Teapot"
func titleCase(s string) string {
	s = strings.ReplaceAll(s, "-", " ")
	s = strings.ReplaceAll(s, "_", " ")

	words := strings.Fields(s)
	for i, word := range words {
		words[i] = strings.ToUpper(word[:1]) + strings.ToLower(word[1:])
	}
	return strings.Join(words, " ")
}
