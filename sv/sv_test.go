package sv

import (
	"context"
	"testing"
)

func TestSmoke(t *testing.T) {
	ctx := context.Background()

	res, err := MapText(ctx, "smoke.sv", []byte(`
class counter;
	bit [15:0] value;

	function void bump();
		value = value + 1;
	endfunction
endclass
`))
	if err != nil {
		t.Fatalf("map text: %v", err)
	}

	if !res.OK {
		t.Errorf("mapping failed:\n%s", res.Report)
	}

	if len(res.Classes) != 1 {
		t.Errorf("classes: %d", len(res.Classes))
	}

	t.Logf("report:\n%s", res.Report)
}
