package secrets

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestLoad(t *testing.T) {
	dir := t.TempDir()

	keyFile := filepath.Join(dir, "key")
	if err := os.WriteFile(keyFile, []byte("  from-file \n"), 0o600); err != nil {
		t.Fatalf("writing key file: %v", err)
	}
	emptyFile := filepath.Join(dir, "empty")
	if err := os.WriteFile(emptyFile, []byte("\n"), 0o600); err != nil {
		t.Fatalf("writing empty file: %v", err)
	}

	t.Setenv("VARSITYLINK_TEST_SECRET", " from-env ")

	tests := []struct {
		name    string
		src     Source
		want    string
		wantErr error
	}{
		{name: "file wins", src: Source{File: keyFile, Env: "VARSITYLINK_TEST_SECRET", Value: "inline"}, want: "from-file"},
		{name: "env beats inline", src: Source{Env: "VARSITYLINK_TEST_SECRET", Value: "inline"}, want: "from-env"},
		{name: "unset env falls back to inline", src: Source{Env: "VARSITYLINK_TEST_UNSET", Value: " inline "}, want: "inline"},
		{name: "nothing configured", src: Source{Name: "gemini api key"}, wantErr: ErrNotConfigured},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Load(tt.src)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Fatalf("expected %q, got %q", tt.want, got)
			}
		})
	}

	if _, err := Load(Source{File: emptyFile}); err == nil {
		t.Fatalf("expected error for empty file")
	}
	if _, err := Load(Source{File: filepath.Join(dir, "missing")}); err == nil {
		t.Fatalf("expected error for missing file")
	}
}
