package crypto

import "testing"

func TestKeySizeLadderSizes(t *testing.T) {
	got := AES.KeySizes.Sizes()
	want := []int{256, 192, 128}
	if len(got) != len(want) {
		t.Fatalf("Sizes() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Sizes()[%d] = %d, want %d", i, got[i], want[i])
		}
	}
}

func TestKeySizeLadderLargestAtMost(t *testing.T) {
	cases := []struct {
		cap     int
		want    int
		wantErr bool
	}{
		{cap: 0, want: 256},
		{cap: 256, want: 256},
		{cap: 200, want: 192},
		{cap: 128, want: 128},
		{cap: 64, wantErr: true},
	}
	for _, tc := range cases {
		got, err := AES.KeySizes.LargestAtMost(tc.cap)
		if tc.wantErr {
			if err == nil {
				t.Errorf("cap %d: expected error", tc.cap)
			}
			continue
		}
		if err != nil {
			t.Errorf("cap %d: unexpected error: %v", tc.cap, err)
			continue
		}
		if got != tc.want {
			t.Errorf("cap %d: got %d, want %d", tc.cap, got, tc.want)
		}
	}
}

func TestDefaultCipherFactory(t *testing.T) {
	f := DefaultCipherFactory()
	if f.BlockSize() != 16 {
		t.Errorf("BlockSize() = %d, want 16", f.BlockSize())
	}
	key := make([]byte, 16)
	block, err := f.CreateBlock(key)
	if err != nil {
		t.Fatalf("CreateBlock: %v", err)
	}
	if block.BlockSize() != 16 {
		t.Errorf("block.BlockSize() = %d, want 16", block.BlockSize())
	}
	h := f.CreateHash()
	h.Write([]byte("test"))
	if len(h.Sum(nil)) != 32 {
		t.Errorf("hash sum length = %d, want 32", len(h.Sum(nil)))
	}
}
