// SPDX-License-Identifier: MPL-2.0

package component

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestDecode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		data    string
		wantIDs []string
		wantErr string
	}{
		{name: "empty registry", data: `[]`, wantIDs: []string{}},
		{name: "components", data: `[{"dir":"a"},{"dir":"b","dependencies":["a"],"x":1}]`, wantIDs: []string{"a", "b"}},
		{name: "missing dir", data: `[{"dir":"a"},{"dependencies":["a"]}]`, wantErr: "[1].dir"},
		{name: "empty dir", data: `[{"dir":""}]`, wantErr: "[0].dir"},
		{name: "dependencies not a list", data: `[{"dir":"a","dependencies":"b"}]`, wantErr: "dependencies"},
		{name: "top level object", data: `{"dir":"a"}`, wantErr: "malformed registry"},
		{name: "invalid json", data: `[{"dir":"a",}]`, wantErr: "malformed registry"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			comps, err := Decode([]byte(tt.data), "components.json")
			if tt.wantErr != "" {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				if !errors.Is(err, ErrMalformedRegistry) {
					t.Errorf("error should wrap ErrMalformedRegistry, got %v", err)
				}
				if !strings.Contains(err.Error(), tt.wantErr) {
					t.Errorf("error %q should contain %q", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Decode() error: %v", err)
			}
			if diff := cmp.Diff(tt.wantIDs, IDs(comps)); diff != "" {
				t.Errorf("IDs mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, DefaultFileName), []byte(`[{"dir":"a"}]`), 0o644); err != nil {
		t.Fatal(err)
	}

	comps, err := Load(root, "")
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if c, ok := Find(comps, "a"); !ok || c.ID != "a" {
		t.Errorf("Find(a) = %v, %v", c, ok)
	}
	if _, ok := Find(comps, "b"); ok {
		t.Error("Find(b) should not find anything")
	}

	if _, err := Load(root, "other.json"); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("Load(missing) error = %v, want os.ErrNotExist", err)
	}
}

func TestEncodeJSON_Pretty(t *testing.T) {
	t.Parallel()

	comps, err := Decode([]byte(`[{"dir":"a","meta":{"k":"v"}}]`), "")
	if err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	if err := EncodeJSON(&buf, comps, true); err != nil {
		t.Fatal(err)
	}
	want := "[\n  {\n    \"dir\": \"a\",\n    \"meta\": {\n      \"k\": \"v\"\n    }\n  }\n]\n"
	if diff := cmp.Diff(want, buf.String()); diff != "" {
		t.Errorf("EncodeJSON() mismatch (-want +got):\n%s", diff)
	}

	buf.Reset()
	if err := EncodeJSON(&buf, nil, false); err != nil {
		t.Fatal(err)
	}
	if buf.String() != "[]\n" {
		t.Errorf("EncodeJSON(nil) = %q, want %q", buf.String(), "[]\n")
	}
}

func TestEncodeJSON_KeepsHTMLCharacters(t *testing.T) {
	t.Parallel()

	comps, err := Decode([]byte(`[{"dir":"a&b","dependencies":["<c>"]}]`), "")
	if err != nil {
		t.Fatal(err)
	}
	comps[0].Extra.SetString("image", "repo/a&b:<tag>")

	var buf bytes.Buffer
	if err := EncodeJSON(&buf, comps, false); err != nil {
		t.Fatal(err)
	}
	want := `[{"dir":"a&b","dependencies":["<c>"],"image":"repo/a&b:<tag>"}]` + "\n"
	if diff := cmp.Diff(want, buf.String()); diff != "" {
		t.Errorf("EncodeJSON() mismatch (-want +got):\n%s", diff)
	}
}

func TestEncode_YAML(t *testing.T) {
	t.Parallel()

	comps, err := Decode([]byte(`[{"dir":"b","dependencies":["a"],"count":2,"f":1.5,"ok":true,"z":null,"meta":{"b":"1","a":"2"}}]`), "")
	if err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	if err := Encode(&buf, comps, FormatYAML, false); err != nil {
		t.Fatalf("Encode() error: %v", err)
	}
	want := `- dir: b
  dependencies:
    - a
  count: 2
  f: 1.5
  ok: true
  z: null
  meta:
    b: "1"
    a: "2"
`
	if diff := cmp.Diff(want, buf.String()); diff != "" {
		t.Errorf("Encode(yaml) mismatch (-want +got):\n%s", diff)
	}
}

func TestFormat_IsValid(t *testing.T) {
	t.Parallel()

	for _, f := range []Format{"", FormatJSON, FormatYAML} {
		if ok, errs := f.IsValid(); !ok {
			t.Errorf("Format(%q).IsValid() = false, %v", f, errs)
		}
	}

	ok, errs := Format("toml").IsValid()
	if ok || len(errs) != 1 {
		t.Fatalf("Format(toml).IsValid() = %v, %v", ok, errs)
	}
	if !errors.Is(errs[0], ErrInvalidFormat) {
		t.Errorf("error should wrap ErrInvalidFormat, got %v", errs[0])
	}
	var fe *InvalidFormatError
	if !errors.As(errs[0], &fe) || fe.Value != "toml" {
		t.Errorf("errors.As InvalidFormatError failed: %v", errs[0])
	}

	if err := Encode(&bytes.Buffer{}, nil, "toml", false); !errors.Is(err, ErrInvalidFormat) {
		t.Errorf("Encode(toml) error = %v", err)
	}
}
