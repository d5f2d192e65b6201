package mesh

import "testing"

func TestAttributeCache(t *testing.T) {
	c := NewAttributeCache()

	key := AttributeKey{Position: 1, Normal: 2, TexCoord: 3}
	if _, ok := c.TryGet(key); ok {
		t.Fatal("empty cache should miss")
	}

	c.Set(key, 7)
	idx, ok := c.TryGet(key)
	if !ok || idx != 7 {
		t.Errorf("TryGet after Set: got (%d, %v), want (7, true)", idx, ok)
	}

	c.Clear()
	if _, ok := c.TryGet(key); ok {
		t.Error("Clear should discard entries")
	}
	if c.Len() != 0 {
		t.Errorf("Len after Clear: got %d, want 0", c.Len())
	}
}

func TestAttributeKeyDistinct(t *testing.T) {
	tests := []struct {
		name string
		a, b AttributeKey
	}{
		{
			name: "texcoord absent vs present",
			a:    AttributeKey{Position: 0, Normal: 0, TexCoord: NoIndex},
			b:    AttributeKey{Position: 0, Normal: 0, TexCoord: 0},
		},
		{
			name: "normal absent vs present",
			a:    AttributeKey{Position: 4, Normal: NoIndex, TexCoord: NoIndex},
			b:    AttributeKey{Position: 4, Normal: 4, TexCoord: NoIndex},
		},
		{
			name: "order sensitive",
			a:    AttributeKey{Position: 1, Normal: 2, TexCoord: 3},
			b:    AttributeKey{Position: 3, Normal: 2, TexCoord: 1},
		},
		{
			name: "position and normal swapped",
			a:    AttributeKey{Position: 1, Normal: 2, TexCoord: NoIndex},
			b:    AttributeKey{Position: 2, Normal: 1, TexCoord: NoIndex},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewAttributeCache()
			c.Set(tt.a, 1)
			c.Set(tt.b, 2)
			if c.Len() != 2 {
				t.Fatalf("expected 2 entries, got %d", c.Len())
			}
			if idx, _ := c.TryGet(tt.a); idx != 1 {
				t.Errorf("key a: got %d, want 1", idx)
			}
			if idx, _ := c.TryGet(tt.b); idx != 2 {
				t.Errorf("key b: got %d, want 2", idx)
			}
		})
	}
}
