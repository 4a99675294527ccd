package spritebatch

// portionLength returns the length of the maximal run of sprites starting
// at start that share the texture of sprites[start], capped at max.
// Textures compare by identity: equal pixel contents on distinct texture
// values do not merge, and interleaved textures are never reordered to
// coalesce runs. The result is always at least 1.
func portionLength(sprites []Sprite, start, max int) int {
	first := sprites[start].Texture
	count := 1
	for start+count < len(sprites) && count < max {
		if sprites[start+count].Texture != first {
			break
		}
		count++
	}
	return count
}
