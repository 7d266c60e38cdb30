package anthropic

// BuildCachedSystemBlocks constructs system content blocks with a cache
// breakpoint set to a 5-minute TTL. The extraction system prompt is the
// same on every call, so repeated questions within the window hit the
// warm cache instead of re-tokenizing the prompt.
func BuildCachedSystemBlocks(text string) []SystemBlock {
	return []SystemBlock{
		{
			Text: text,
			CacheControl: &CacheControl{
				TTL: "5m",
			},
		},
	}
}
