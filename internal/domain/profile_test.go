package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodePhoto(t *testing.T) {
	p := Profile{Photo: "data:image/jpeg;base64,/9g="}

	mimeType, data, err := p.DecodePhoto()
	require.NoError(t, err)
	assert.Equal(t, "image/jpeg", mimeType)
	assert.Equal(t, []byte{0xff, 0xd8}, data)
}

func TestDecodePhoto_Errors(t *testing.T) {
	tests := []struct {
		name  string
		photo string
		want  error
	}{
		{name: "empty", photo: "", want: ErrNoPhoto},
		{name: "blank", photo: "   ", want: ErrNoPhoto},
		{name: "no comma", photo: "data:image/png;base64", want: ErrInvalidPhoto},
		{name: "not a data uri", photo: "https://example.com/a.png,abc", want: ErrInvalidPhoto},
		{name: "not base64 encoded", photo: "data:image/png,abc", want: ErrInvalidPhoto},
		{name: "missing mime", photo: "data:;base64,AAAA", want: ErrInvalidPhoto},
		{name: "bad payload", photo: "data:image/png;base64,***", want: ErrInvalidPhoto},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Profile{Photo: tt.photo}
			_, _, err := p.DecodePhoto()
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestWithoutPhoto(t *testing.T) {
	p := NewProfile()
	p.Name = "陳小美"
	p.Photo = "data:image/png;base64,AAAA"

	stripped := p.WithoutPhoto()
	assert.Empty(t, stripped.Photo)
	assert.Equal(t, "陳小美", stripped.Name)
	assert.NotEmpty(t, p.Photo)
}

func TestRelationshipGoalValid(t *testing.T) {
	assert.True(t, GoalCasualPartner.Valid())
	assert.True(t, GoalLifePartner.Valid())
	assert.False(t, RelationshipGoal("").Valid())
	assert.False(t, RelationshipGoal("casual_partner").Valid())
}

func TestMatchImageDataURI(t *testing.T) {
	img := &MatchImage{MIMEType: "image/png", Data: []byte("png")}
	assert.Equal(t, "data:image/png;base64,cG5n", img.DataURI())
}
