package constants

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMapExtToFormat(t *testing.T) {
	assert.Equal(t, PDF, MapExtToFormat(".pdf"))
	assert.Equal(t, PDF, MapExtToFormat("PDF"))
	assert.Equal(t, IMAGE, MapExtToFormat(".JPEG"))
	assert.Equal(t, IMAGE, MapExtToFormat("png"))
	assert.Equal(t, "", MapExtToFormat(".docx"))
}

func TestIsHEICExt(t *testing.T) {
	assert.True(t, IsHEICExt(".heic"))
	assert.True(t, IsHEICExt("HEIF"))
	assert.False(t, IsHEICExt(".jpg"))
}
