package translate

import "testing"

func TestParseEngineType(t *testing.T) {
	cases := []struct {
		in      string
		want    EngineType
		wantErr bool
	}{
		{"mymemory", EngineMyMemory, false},
		{"MyMemory", EngineMyMemory, false},
		{"libretranslate", EngineLibreTranslate, false},
		{"LibreTranslate", EngineLibreTranslate, false},
		{"argos", "", true},
		{"", "", true},
	}
	for _, tc := range cases {
		got, err := ParseEngineType(tc.in)
		if tc.wantErr {
			if err == nil {
				t.Errorf("ParseEngineType(%q): expected error", tc.in)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseEngineType(%q): %v", tc.in, err)
			continue
		}
		if got != tc.want {
			t.Errorf("ParseEngineType(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestNew_UnknownEngine(t *testing.T) {
	if _, err := New(Config{Engine: "deepl", Logger: quietLogger()}); err == nil {
		t.Fatal("expected error for unknown engine")
	}
}

func TestNew_WiresEachEngine(t *testing.T) {
	for _, engine := range []EngineType{EngineMyMemory, EngineLibreTranslate} {
		tr, err := New(Config{Engine: engine, Logger: quietLogger()})
		if err != nil {
			t.Errorf("New(%s): %v", engine, err)
			continue
		}
		if tr == nil {
			t.Errorf("New(%s): nil translator", engine)
		}
	}
}
