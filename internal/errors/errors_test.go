package errors

import (
	"fmt"
	"testing"
)

func TestMessages(t *testing.T) {
	tests := []struct {
		name string
		err  *Error
		want string
	}{
		{"not found", NotFound("container", "53ft"), `[NOT_FOUND] container "53ft" not found`},
		{"capacity", Capacity("20ft", "1260", "1172"), "[CAPACITY_EXCEEDED] exceeds container: need 1260 cu ft, max 1172 cu ft"},
		{"input", Inputf("quantity must be positive, got %d", 0), "[INPUT_ERROR] quantity must be positive, got 0"},
		{"wrapped", Config("read rates file rates.yaml", fmt.Errorf("permission denied")), "[CONFIG_ERROR] read rates file rates.yaml: permission denied"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCapacityCarriesContainer(t *testing.T) {
	err := Capacity("40hc", "2700", "2690").WithContext("max_volume_cuft", 2690.0)
	if err.Context["container_id"] != "40hc" || err.Context["max_volume_cuft"] != 2690.0 {
		t.Errorf("context = %v", err.Context)
	}
}

func TestIsTypeUnwrapsChains(t *testing.T) {
	base := Parsing("decode rates table", fmt.Errorf("unexpected EOF"))
	wrapped := fmt.Errorf("load rates.json: %w", base)

	if !IsType(wrapped, TypeParsing) || IsType(wrapped, TypeConfig) {
		t.Error("IsType did not see the typed error through the wrap")
	}
	if IsType(fmt.Errorf("plain"), TypeInternal) || IsType(nil, TypeInput) {
		t.Error("untyped errors must not match")
	}
	e, ok := As(wrapped)
	if !ok || e != base {
		t.Errorf("As = %v, %v", e, ok)
	}
}
