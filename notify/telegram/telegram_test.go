package telegram

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/xxxsen/ncfolder/notify"
)

func TestRegistered(t *testing.T) {
	assert.Contains(t, notify.List(), Name)
}

func TestCreateMissingArgs(t *testing.T) {
	_, err := notify.Create(Name, map[string]interface{}{"chatid": 0, "token": ""})
	assert.Error(t, err)
	_, err = New(12345, "")
	assert.Error(t, err)
}
