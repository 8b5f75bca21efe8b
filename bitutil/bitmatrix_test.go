package bitutil

import "testing"

func TestBitMatrixGetSetFlip(t *testing.T) {
	m := NewBitMatrixWithSize(70, 10)
	m.Set(3, 5)
	m.Set(67, 9) // crosses the first word boundary
	if !m.Get(3, 5) || !m.Get(67, 9) {
		t.Error("set bits should read back set")
	}
	if m.Get(5, 3) {
		t.Error("unrelated bit should be clear")
	}
	m.Flip(3, 5)
	if m.Get(3, 5) {
		t.Error("bit should be clear after flip")
	}
	m.Unset(67, 9)
	if m.Get(67, 9) {
		t.Error("bit should be clear after unset")
	}
}

func TestBitMatrixSetRegion(t *testing.T) {
	m := NewBitMatrixWithSize(8, 8)
	m.SetRegion(2, 2, 4, 4)
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			want := x >= 2 && x < 6 && y >= 2 && y < 6
			if m.Get(x, y) != want {
				t.Errorf("(%d,%d) = %v, want %v", x, y, m.Get(x, y), want)
			}
		}
	}
}

func TestBitMatrixCloneIsIndependent(t *testing.T) {
	m := NewBitMatrix(21)
	m.Set(1, 1)
	c := m.Clone()
	if !c.Equal(m) {
		t.Fatal("clone should equal original")
	}
	c.Flip(1, 1)
	if !m.Get(1, 1) {
		t.Error("mutating the clone must not affect the original")
	}
}

func TestBitMatrixTranspose(t *testing.T) {
	m := NewBitMatrix(5)
	m.Set(4, 1)
	m.Set(2, 2)
	m.Transpose()
	if !m.Get(1, 4) || m.Get(4, 1) {
		t.Error("off-diagonal bit not mirrored")
	}
	if !m.Get(2, 2) {
		t.Error("diagonal bit must survive transpose")
	}
}

func TestBitMatrixRotate90(t *testing.T) {
	m := NewBitMatrixWithSize(3, 2)
	m.Set(0, 0)
	m.Set(2, 1)
	r := m.Rotate90()
	if r.Width() != 2 || r.Height() != 3 {
		t.Fatalf("rotated size = %dx%d, want 2x3", r.Width(), r.Height())
	}
	if !r.Get(1, 0) || !r.Get(0, 2) {
		t.Errorf("rotated bits misplaced:\n%s", r)
	}
}

func TestBitSourceReads(t *testing.T) {
	s := NewBitSource([]byte{0b10110100, 0b01100001, 0xFF})
	got, err := s.ReadBits(3)
	if err != nil || got != 0b101 {
		t.Fatalf("ReadBits(3) = %d, %v; want 5", got, err)
	}
	got, err = s.ReadBits(10) // spans two bytes
	if err != nil || got != 0b1010001100 {
		t.Fatalf("ReadBits(10) = %d, %v; want %d", got, err, 0b1010001100)
	}
	if s.Available() != 11 {
		t.Errorf("Available = %d, want 11", s.Available())
	}
	got, err = s.ReadBits(11)
	if err != nil || got != 0b00111111111 {
		t.Fatalf("ReadBits(11) = %d, %v", got, err)
	}
	if _, err := s.ReadBits(1); err != ErrOutOfBits {
		t.Errorf("read past end: err = %v, want ErrOutOfBits", err)
	}
}
