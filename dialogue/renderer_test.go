package dialogue

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRender_SlotsAndResultFields(t *testing.T) {
	slots := map[string]string{"order_id": "O1"}
	last := &ActionResult{
		Status:  StatusSuccess,
		Payload: map[string]string{"status": "shipped"},
	}

	got := Render("订单${order_id}状态为${api_result.status}", slots, last)
	assert.Equal(t, "订单O1状态为shipped", got)
}

func TestRender_UnresolvedPlaceholderLeftVerbatim(t *testing.T) {
	slots := map[string]string{"order_id": "O1"}
	last := &ActionResult{
		Status:  StatusSuccess,
		Payload: map[string]string{"status": "shipped"},
	}

	got := Render("订单${order_id}状态为${api_result.status}，预计${api_result.eta}", slots, last)
	assert.Equal(t, "订单O1状态为shipped，预计${api_result.eta}", got)
}

func TestRender_ResultFieldsGatedOnSuccess(t *testing.T) {
	last := &ActionResult{
		Status:  StatusFailure,
		Payload: map[string]string{"status": "shipped"},
	}

	got := Render("status: ${api_result.status}", nil, last)
	assert.Equal(t, "status: ${api_result.status}", got)
}

func TestRender_NilResult(t *testing.T) {
	got := Render("hello ${name}", map[string]string{"name": "Ada"}, nil)
	assert.Equal(t, "hello Ada", got)
}

func TestRender_PrefixSlotNamesDoNotCollide(t *testing.T) {
	slots := map[string]string{
		"id":      "SHORT",
		"id_full": "LONG",
	}

	got := Render("${id} and ${id_full}", slots, nil)
	assert.Equal(t, "SHORT and LONG", got)
}

func TestRender_SubstitutedValueIsNotRescanned(t *testing.T) {
	slots := map[string]string{
		"a": "${b}",
		"b": "nested",
	}

	// A single left-to-right scan never re-reads substituted output.
	got := Render("${a}", slots, nil)
	assert.Equal(t, "${b}", got)
}

func TestRender_Pure(t *testing.T) {
	slots := map[string]string{"x": "1"}
	last := &ActionResult{Status: StatusSuccess, Payload: map[string]string{"y": "2"}}
	template := "${x}${api_result.y}${z}"

	first := Render(template, slots, last)
	second := Render(template, slots, last)

	assert.Equal(t, first, second)
	assert.Equal(t, map[string]string{"x": "1"}, slots)
	assert.Equal(t, map[string]string{"y": "2"}, last.Payload)
}

func TestRender_UnterminatedPlaceholder(t *testing.T) {
	got := Render("broken ${tail", map[string]string{"tail": "x"}, nil)
	assert.Equal(t, "broken ${tail", got)
}

func TestRender_NoPlaceholders(t *testing.T) {
	got := Render("plain text", map[string]string{"a": "b"}, nil)
	assert.Equal(t, "plain text", got)
}
