package project

import "testing"

func TestNormalizeModulePath(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "ganita", want: "ganita"},
		{in: "lib/ganita.esspy", want: "lib/ganita"},
		{in: `lib\ganita`, want: "lib/ganita"},
		{in: "/lib/ganita", want: "lib/ganita"},
		{in: "", wantErr: true},
		{in: ".esspy", wantErr: true},
		{in: "lib//ganita", wantErr: true},
		{in: "lib/../ganita", wantErr: true},
		{in: "./ganita", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := NormalizeModulePath(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %q", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("NormalizeModulePath returned error: %v", err)
			}
			if got != tt.want {
				t.Fatalf("NormalizeModulePath = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestIsValidImportPath(t *testing.T) {
	if !IsValidImportPath("lib/ganita") {
		t.Fatal("lib/ganita must be valid")
	}
	for _, bad := range []string{"lib/ganita.esspy", "/lib", "lib/", "a/./b"} {
		if IsValidImportPath(bad) {
			t.Fatalf("%q must be rejected", bad)
		}
	}
}
