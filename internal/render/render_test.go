package render_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/unclebandit/mailblast-backend/internal/model"
	"github.com/unclebandit/mailblast-backend/internal/render"
)

func TestRender(t *testing.T) {
	t.Parallel()

	row := model.RecipientRow{"name": "Bob", "city": "Hong Kong"}

	t.Run("substitutes matching placeholders", func(t *testing.T) {
		require.Equal(t, "Hi Bob", render.Render("Hi {name}", row))
	})

	t.Run("substitutes the same placeholder repeatedly", func(t *testing.T) {
		require.Equal(t, "Bob Bob", render.Render("{name} {name}", row))
	})

	t.Run("leaves unknown placeholders verbatim", func(t *testing.T) {
		require.Equal(t, "Hi {missing}", render.Render("Hi {missing}", row))
	})

	t.Run("mixes matched and unmatched", func(t *testing.T) {
		got := render.Render("Dear {name} from {city}, ref {order_id}", row)
		require.Equal(t, "Dear Bob from Hong Kong, ref {order_id}", got)
	})

	t.Run("does not escape substituted values", func(t *testing.T) {
		r := model.RecipientRow{"name": "<b>Bob</b>"}
		require.Equal(t, "Hi <b>Bob</b>", render.Render("Hi {name}", r))
	})

	t.Run("empty template", func(t *testing.T) {
		require.Equal(t, "", render.Render("", row))
	})

	t.Run("empty row leaves everything verbatim", func(t *testing.T) {
		require.Equal(t, "Hi {name}", render.Render("Hi {name}", model.RecipientRow{}))
	})
}

func TestStripHTML(t *testing.T) {
	t.Parallel()

	t.Run("removes tags", func(t *testing.T) {
		got := render.StripHTML("<html><body><p>Hello <b>world</b></p></body></html>")
		require.Equal(t, "Hello world", got)
	})

	t.Run("decodes entities", func(t *testing.T) {
		require.Equal(t, "a & b <c>", render.StripHTML("a &amp; b &lt;c&gt;"))
	})

	t.Run("plain text passes through", func(t *testing.T) {
		require.Equal(t, "no markup here", render.StripHTML("no markup here"))
	})
}
