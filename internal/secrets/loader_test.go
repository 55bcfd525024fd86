package secrets

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoad(t *testing.T) {
	dir := t.TempDir()

	filled := filepath.Join(dir, "token")
	if err := os.WriteFile(filled, []byte("  from-file \n"), 0o600); err != nil {
		t.Fatalf("write secret file: %v", err)
	}

	empty := filepath.Join(dir, "empty")
	if err := os.WriteFile(empty, []byte("   "), 0o600); err != nil {
		t.Fatalf("write empty file: %v", err)
	}

	t.Setenv("FINDER_TEST_SECRET", " from-env ")

	tests := []struct {
		name    string
		src     Source
		expect  string
		wantErr string
	}{
		{
			name:   "file wins over env and value",
			src:    Source{Name: "token", File: filled, Env: "FINDER_TEST_SECRET", Value: "inline"},
			expect: "from-file",
		},
		{
			name:   "env wins over value",
			src:    Source{Name: "token", Env: "FINDER_TEST_SECRET", Value: "inline"},
			expect: "from-env",
		},
		{
			name:   "inline value",
			src:    Source{Name: "token", Value: " inline "},
			expect: "inline",
		},
		{
			name:    "empty file",
			src:     Source{Name: "token", File: empty},
			wantErr: "is empty",
		},
		{
			name:    "missing file",
			src:     Source{Name: "token", File: filepath.Join(dir, "missing")},
			wantErr: "reading token from file",
		},
		{
			name:    "nothing configured",
			src:     Source{},
			wantErr: "secret is not configured",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Load(tt.src)
			if tt.wantErr != "" {
				if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
					t.Fatalf("expected error containing %q, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.expect {
				t.Fatalf("expected %q, got %q", tt.expect, got)
			}
		})
	}
}

func TestLoadOptional(t *testing.T) {
	got, err := LoadOptional(Source{Name: "token", Env: "FINDER_TEST_UNSET_SECRET"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "" {
		t.Fatalf("expected empty secret, got %q", got)
	}

	got, err = LoadOptional(Source{Name: "token", Value: "abc"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "abc" {
		t.Fatalf("expected abc, got %q", got)
	}
}
