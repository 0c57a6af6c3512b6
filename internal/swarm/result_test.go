package swarm

import "testing"

func TestResultCode_String(t *testing.T) {
	if ResultNotAllOK.String() != "not_all_ok" || ResultCode(-99).String() != "result(-99)" {
		t.Fatalf("unexpected names %q %q", ResultNotAllOK, ResultCode(-99))
	}
	if !ResultOK.OK() || ResultTired.OK() {
		t.Fatal("OK() wrong")
	}
}
