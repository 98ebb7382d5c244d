package scene

import (
	"os"
	"path/filepath"
	"testing"
)

func TestTitleCase(t *testing.T) {
	testCases := []struct {
		input    string
		expected string
	}{
		{"utah-teapot", "Utah Teapot"},
		{"stanford_bunny", "Stanford Bunny"},
		{"simple", "Simple"},
		{"UPPER-case", "Upper Case"},
		{"", ""},
	}

	for _, tc := range testCases {
		t.Run(tc.input, func(t *testing.T) {
			result := titleCase(tc.input)
			if result != tc.expected {
				t.Errorf("titleCase(%q) = %q, want %q", tc.input, result, tc.expected)
			}
		})
	}
}

func TestParseMeshMetadata(t *testing.T) {
	dir := t.TempDir()

	testCases := []struct {
		name     string
		content  string
		expected SceneInfo
	}{
		{
			name: "teapot.obj",
			content: `# Scene: Utah Teapot
# Description: The classic teapot
# Group: Classics
v 0 0 0`,
			expected: SceneInfo{ID: "mesh:teapot", Name: "Utah Teapot", Description: "The classic teapot", Group: "Classics", Type: "mesh"},
		},
		{
			name:     "no_metadata.obj",
			content:  "v 0 0 0\n# Scene: ignored after data",
			expected: SceneInfo{ID: "mesh:no_metadata", Name: "No Metadata", Group: "Mesh Scenes", Type: "mesh"},
		},
		{
			name:     "bunny.ply",
			content:  "ply\nformat ascii 1.0\ncomment Scene: Bunny\nelement vertex 0\nend_header\n",
			expected: SceneInfo{ID: "mesh:bunny", Name: "Bunny", Group: "Mesh Scenes", Type: "mesh"},
		},
		{
			name:     "robot-arm.glb",
			content:  "glTF",
			expected: SceneInfo{ID: "mesh:robot-arm", Name: "Robot Arm", Group: "Mesh Scenes", Type: "mesh"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			path := filepath.Join(dir, tc.name)
			if err := os.WriteFile(path, []byte(tc.content), 0644); err != nil {
				t.Fatalf("Failed to write temp file: %v", err)
			}

			result, err := ParseMeshMetadata(path)
			if err != nil {
				t.Fatalf("ParseMeshMetadata() error: %v", err)
			}

			tc.expected.FilePath = path
			if result != tc.expected {
				t.Errorf("ParseMeshMetadata() = %+v, want %+v", result, tc.expected)
			}
		})
	}
}

func TestListMeshScenesIn(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.obj", "a.glb", "notes.txt"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("v 0 0 0\n"), 0644); err != nil {
			t.Fatalf("Failed to write temp file: %v", err)
		}
	}

	scenes, err := listMeshScenesIn(dir)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(scenes) != 2 {
		t.Fatalf("Expected 2 mesh scenes, got %d", len(scenes))
	}
	if scenes[0].Name != "A" || scenes[1].Name != "B" {
		t.Errorf("Expected scenes sorted by name, got %q, %q", scenes[0].Name, scenes[1].Name)
	}
}

func TestListAllScenes(t *testing.T) {
	response, err := ListAllScenes()
	if err != nil {
		t.Fatalf("ListAllScenes() error: %v", err)
	}

	if len(response.Groups) == 0 || response.Groups[0].Name != "Built-in Scenes" {
		t.Fatalf("Expected Built-in Scenes group first, got %+v", response.Groups)
	}

	builtIn := response.Groups[0]
	if len(builtIn.Scenes) != len(Names()) {
		t.Errorf("Built-in scenes count = %d, want %d", len(builtIn.Scenes), len(Names()))
	}
	for _, s := range builtIn.Scenes {
		if s.Type != "builtin" {
			t.Errorf("Expected builtin type for %s, got %q", s.ID, s.Type)
		}
	}
}
