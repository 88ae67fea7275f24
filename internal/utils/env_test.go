package utils

import "testing"

func TestGetEnv(t *testing.T) {
	t.Setenv("PATHWISE_TEST_STR", "from-env")

	if got := GetEnv("PATHWISE_TEST_STR", "fallback", nil); got != "from-env" {
		t.Fatalf("GetEnv = %q, want from-env", got)
	}
	if got := GetEnv("PATHWISE_TEST_STR_MISSING", "fallback", nil); got != "fallback" {
		t.Fatalf("GetEnv = %q, want fallback", got)
	}
}

func TestGetEnvAsInt(t *testing.T) {
	t.Setenv("PATHWISE_TEST_INT", "42")
	t.Setenv("PATHWISE_TEST_BAD_INT", "forty-two")

	cases := []struct {
		name string
		key  string
		want int
	}{
		{name: "set", key: "PATHWISE_TEST_INT", want: 42},
		{name: "unset_uses_default", key: "PATHWISE_TEST_INT_MISSING", want: 7},
		{name: "unparsable_uses_default", key: "PATHWISE_TEST_BAD_INT", want: 7},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := GetEnvAsInt(tc.key, 7, nil); got != tc.want {
				t.Fatalf("GetEnvAsInt(%s) = %d, want %d", tc.key, got, tc.want)
			}
		})
	}
}
