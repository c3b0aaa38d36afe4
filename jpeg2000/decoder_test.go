package jpeg2000

import "testing"

func TestDecodeRejectsEmptyInput(t *testing.T) {
	d := NewDecoder()
	if err := d.Decode(nil); err == nil {
		t.Fatal("Decode(nil) should return an error")
	}
}

func TestDecodeRejectsGarbageInput(t *testing.T) {
	d := NewDecoder()
	garbage := []byte{0x00, 0x01, 0x02, 0x03, 0x04, 0x05}
	if err := d.Decode(garbage); err == nil {
		t.Fatal("Decode(garbage) should return an error for a missing SOC marker")
	}
}

func TestNewDecoderZeroValue(t *testing.T) {
	d := NewDecoder()
	if d.Width() != 0 || d.Height() != 0 || d.Components() != 0 {
		t.Errorf("freshly constructed Decoder should report zero dimensions, got %dx%d x%d",
			d.Width(), d.Height(), d.Components())
	}
	if _, err := d.GetComponentData(0); err == nil {
		t.Error("GetComponentData on an undecoded Decoder should error")
	}
}

func TestGetComponentDataRejectsOutOfRangeIndex(t *testing.T) {
	d := &Decoder{data: [][]int32{{1, 2, 3}}}
	if _, err := d.GetComponentData(-1); err == nil {
		t.Error("GetComponentData(-1) should error")
	}
	if _, err := d.GetComponentData(1); err == nil {
		t.Error("GetComponentData(1) should error when only one component is present")
	}
	got, err := d.GetComponentData(0)
	if err != nil {
		t.Fatalf("GetComponentData(0): %v", err)
	}
	if len(got) != 3 {
		t.Errorf("GetComponentData(0) len = %d, want 3", len(got))
	}
}

func TestSetROIAndSetROIConfig(t *testing.T) {
	d := NewDecoder()
	roi := &ROIParams{X0: 0, Y0: 0, Width: 10, Height: 10}
	d.SetROI(roi)
	if d.roi != roi {
		t.Error("SetROI did not store the provided ROIParams")
	}

	cfg := &ROIConfig{}
	d.SetROIConfig(cfg)
	if d.roiConfig != cfg {
		t.Error("SetROIConfig did not store the provided ROIConfig")
	}
}
