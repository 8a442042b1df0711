package mq

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDeadLetterArgs(t *testing.T) {
	args := deadLetterArgs()
	assert.Equal(t, DeadExchange, args["x-dead-letter-exchange"],
		"rejected deliveries must land in the dead-letter exchange, not be discarded")
	assert.Equal(t, DeadQueue, args["x-dead-letter-routing-key"])
}

func TestDeclareAllNilClient(t *testing.T) {
	var c *Client
	assert.Error(t, c.DeclareAll())
}
