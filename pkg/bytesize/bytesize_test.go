package bytesize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormat(t *testing.T) {
	tests := []struct {
		name string
		size Size
		want string
	}{
		{name: "zero", size: 0, want: "0B"},
		{name: "bytes", size: 512, want: "512B"},
		{name: "exact kilobytes", size: 5 * KB, want: "5KB"},
		{name: "exact megabytes", size: 5 * MB, want: "5MB"},
		{name: "fractional gigabytes", size: GB + GB/2, want: "1.5GB"},
		{name: "trims trailing zeros", size: MB + MB/10, want: "1.1MB"},
		{name: "terabytes", size: 2 * TB, want: "2TB"},
		{name: "negative", size: -3 * MB, want: "-3MB"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Format(tt.size))
		})
	}
}

func TestSizeString(t *testing.T) {
	assert.Equal(t, "720KB", (720 * KB).String())
	assert.Equal(t, int64(1024), KB.Bytes())
}
