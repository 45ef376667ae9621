package tray

import "testing"

func TestTray_Toggle(t *testing.T) {
	tr := New()
	if !tr.IsEnabled() {
		t.Fatal("tray should start enabled")
	}

	var got []bool
	tr.OnToggle(func(enabled bool) {
		got = append(got, enabled)
	})

	// Menu items are nil before the tray is running; toggling must still work.
	tr.handleToggle()
	tr.handleToggle()

	if tr.IsEnabled() != true {
		t.Error("two toggles should leave the tray enabled")
	}
	if len(got) != 2 || got[0] != false || got[1] != true {
		t.Errorf("toggle callbacks = %v, want [false true]", got)
	}
}

func TestTray_SetLastClickBeforeRun(t *testing.T) {
	tr := New()
	// Must not panic without menu items.
	tr.SetLastClick("left")
	tr.SetLastClick("")
}
