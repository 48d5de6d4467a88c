package sanitizer_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/rampagehq/userapi/pkg/sanitizer"
)

func TestTransforms(t *testing.T) {
	t.Parallel()

	t.Run("trim", func(t *testing.T) {
		t.Parallel()

		assert.Equal(t, "hello", sanitizer.Trim("  hello\t\n"))
		assert.Equal(t, "", sanitizer.Trim("   "))
	})

	t.Run("collapse whitespace", func(t *testing.T) {
		t.Parallel()

		assert.Equal(t, "a b c", sanitizer.CollapseWhitespace("a   b \t c"))
	})

	t.Run("remove control chars keeps newlines and tabs", func(t *testing.T) {
		t.Parallel()

		assert.Equal(t, "ab", sanitizer.RemoveControlChars("a\x00\x08b"))
		assert.Equal(t, "a\nb\tc", sanitizer.RemoveControlChars("a\nb\tc"))
	})

	t.Run("strip markup removes nested tags", func(t *testing.T) {
		t.Parallel()

		assert.Equal(t, "hello", sanitizer.StripMarkup("<b>hello</b>"))
		assert.Equal(t, "alert(1)x", sanitizer.StripMarkup("<script>alert(1)</script>x"))
		assert.NotContains(t, sanitizer.StripMarkup("<scr<b>ipt>alert(1)"), "<script>", "split tags cannot reassemble")
	})

	t.Run("normalize email", func(t *testing.T) {
		t.Parallel()

		assert.Equal(t, "User.Name@example.com", sanitizer.NormalizeEmail("  User.Name@EXAMPLE.COM "))
		assert.Equal(t, "user@example.com", sanitizer.NormalizeEmail("user+newsletter@example.com"))
		assert.Equal(t, "not-an-email", sanitizer.NormalizeEmail("not-an-email"), "values without @ pass through")
	})

	t.Run("extract email domain", func(t *testing.T) {
		t.Parallel()

		assert.Equal(t, "example.com", sanitizer.ExtractEmailDomain("user@EXAMPLE.com"))
		assert.Equal(t, "", sanitizer.ExtractEmailDomain("no-at-sign"))
	})
}

func TestIdempotence(t *testing.T) {
	t.Parallel()

	inputs := []string{
		"  plain text  ",
		"<b>bold</b> and <i>italic</i>",
		"<<b>script>nested<</b>/script>",
		"User+tag@EXAMPLE.COM",
		"line\nbreaks\tand\x00controls",
		"",
		"   ",
	}

	transforms := map[string]func(string) string{
		"Trim":               sanitizer.Trim,
		"CollapseWhitespace": sanitizer.CollapseWhitespace,
		"RemoveControlChars": sanitizer.RemoveControlChars,
		"StripMarkup":        sanitizer.StripMarkup,
		"NormalizeEmail":     sanitizer.NormalizeEmail,
	}

	for name, transform := range transforms {
		transform := transform
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			for _, input := range inputs {
				once := transform(input)
				assert.Equal(t, once, transform(once), "input %q", input)
			}
		})
	}

	t.Run("full chain", func(t *testing.T) {
		t.Parallel()

		chain := sanitizer.Compose(
			sanitizer.Trim,
			sanitizer.RemoveControlChars,
			sanitizer.StripMarkup,
		)

		for _, input := range inputs {
			once := chain(input)
			assert.Equal(t, once, chain(once), "input %q", input)
		}
	})
}

func TestApply(t *testing.T) {
	t.Parallel()

	got := sanitizer.Apply("  <b>hi</b>  ", sanitizer.Trim, sanitizer.StripMarkup)
	assert.Equal(t, "hi", got)

	assert.Equal(t, "x", sanitizer.Apply("x"), "no transforms is identity")
}
