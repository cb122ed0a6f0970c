package config

import "testing"

func TestGetEnv(t *testing.T) {
	t.Setenv("SNAKE_TEST_STR", "hello")
	if got := GetEnv("SNAKE_TEST_STR", "x"); got != "hello" {
		t.Errorf("GetEnv = %q, want hello", got)
	}
	if got := GetEnv("SNAKE_TEST_MISSING", "x"); got != "x" {
		t.Errorf("GetEnv = %q, want fallback", got)
	}
}

func TestGetEnvInt(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		set     bool
		want    int
		wantErr bool
	}{
		{name: "unset", want: 7},
		{name: "empty", value: "  ", set: true, want: 7},
		{name: "valid", value: "42", set: true, want: 42},
		{name: "malformed", value: "4x", set: true, want: 7, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.set {
				t.Setenv("SNAKE_TEST_INT", tt.value)
			}
			got, err := GetEnvInt("SNAKE_TEST_INT", 7)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("got %d, want %d", got, tt.want)
			}
		})
	}
}

func TestGetEnvFloatAndUint(t *testing.T) {
	t.Setenv("SNAKE_TEST_FLOAT", "2.5")
	if f, err := GetEnvFloat("SNAKE_TEST_FLOAT", 1); err != nil || f != 2.5 {
		t.Errorf("GetEnvFloat = %v, %v", f, err)
	}
	t.Setenv("SNAKE_TEST_SEED", "-1")
	if _, err := GetEnvUint64("SNAKE_TEST_SEED", 0); err == nil {
		t.Error("expected error for negative seed")
	}
}

func TestGetEnvBool(t *testing.T) {
	for value, want := range map[string]bool{
		"1": true, "true": true, "YES": true, "on": true,
		"0": false, "false": false, "no": false, "Off": false,
	} {
		t.Setenv("SNAKE_TEST_BOOL", value)
		got, err := GetEnvBool("SNAKE_TEST_BOOL", !want)
		if err != nil {
			t.Fatalf("%q: %v", value, err)
		}
		if got != want {
			t.Errorf("%q: got %v, want %v", value, got, want)
		}
	}
	t.Setenv("SNAKE_TEST_BOOL", "maybe")
	if _, err := GetEnvBool("SNAKE_TEST_BOOL", false); err == nil {
		t.Error("expected error for malformed bool")
	}
}
