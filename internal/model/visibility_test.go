package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVisible_HiddenMarshalsAsNull(t *testing.T) {
	hidden := NewVisible("secret@mail.io", false)

	data, err := json.Marshal(hidden)
	require.NoError(t, err)
	assert.Equal(t, "null", string(data))
}

func TestVisible_PublicMarshalsValue(t *testing.T) {
	public := NewVisible("open@mail.io", true)

	data, err := json.Marshal(public)
	require.NoError(t, err)
	assert.Equal(t, `"open@mail.io"`, string(data))
}

func TestVisible_Unmarshal(t *testing.T) {
	var v Visible[string]
	require.NoError(t, json.Unmarshal([]byte(`"x@mail.io"`), &v))
	assert.True(t, v.Public)
	assert.Equal(t, "x@mail.io", v.Value)

	require.NoError(t, json.Unmarshal([]byte("null"), &v))
	assert.False(t, v.Public)
	assert.Empty(t, v.Value)
}

func TestUser_HiddenContactsNeverLeak(t *testing.T) {
	user := User{
		ID:    7,
		Email: NewVisible("a@b.c", false),
		Phone: NewVisible("+100200300", true),
	}

	data, err := json.Marshal(user)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Nil(t, decoded["email"])
	assert.Equal(t, "+100200300", decoded["phone"])
}
