package selection

import "testing"

func TestAddRemoveToggle(t *testing.T) {
	s := New[string]()

	s.Add("steps")
	s.Add("steps")
	if s.Len() != 1 {
		t.Errorf("Len = %d after double add, want 1", s.Len())
	}

	if got := s.Toggle("steps"); got {
		t.Error("Toggle of selected item reported selected")
	}
	if s.IsSelected("steps") {
		t.Error("item still selected after toggle off")
	}

	if got := s.Toggle("sleep"); !got {
		t.Error("Toggle of unselected item reported unselected")
	}

	s.Remove("sleep")
	s.Remove("sleep")
	if s.Len() != 0 {
		t.Errorf("Len = %d after removes, want 0", s.Len())
	}
}

func TestReplaceAllIgnoresEmptyReplacement(t *testing.T) {
	s := New[string]()
	s.Add("steps")
	s.Add("distance")

	s.ReplaceAll(nil)
	s.ReplaceAll([]string{})
	if s.Len() != 2 {
		t.Errorf("empty ReplaceAll changed the selection: Len = %d, want 2", s.Len())
	}

	s.ReplaceAll([]string{"sleep"})
	if s.Len() != 1 || !s.IsSelected("sleep") {
		t.Errorf("ReplaceAll did not swap the selection: %v", s.Snapshot())
	}
	if s.IsSelected("steps") {
		t.Error("replaced item still selected")
	}
}

func TestClearIsExplicitDeselect(t *testing.T) {
	s := New[string]()
	s.Add("steps")
	s.Clear()
	if s.Len() != 0 {
		t.Errorf("Len = %d after Clear, want 0", s.Len())
	}
}

func TestSelectAllKeepsExisting(t *testing.T) {
	s := New[int]()
	s.Add(1)
	s.SelectAll([]int{2, 3})
	for _, want := range []int{1, 2, 3} {
		if !s.IsSelected(want) {
			t.Errorf("%d not selected after SelectAll", want)
		}
	}
}

func TestSnapshotIsDetached(t *testing.T) {
	s := New[string]()
	s.Add("steps")
	snap := s.Snapshot()
	s.Add("sleep")
	if len(snap) != 1 {
		t.Errorf("snapshot mutated by later Add: %v", snap)
	}
}
