package dedupcache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMarkIfAbsent(t *testing.T) {
	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	cache := NewWithClock(5*time.Second, func() time.Time { return now })

	// Первая постановка маркера - не дубль
	assert.False(t, cache.MarkIfAbsent("sess-1:capture"))

	// Повтор в пределах окна - дубль
	assert.True(t, cache.MarkIfAbsent("sess-1:capture"))

	// Другой ключ независим
	assert.False(t, cache.MarkIfAbsent("sess-1:submit_booking"))
	assert.False(t, cache.MarkIfAbsent("sess-2:capture"))
}

func TestMarkIfAbsent_Expiry(t *testing.T) {
	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	cache := NewWithClock(5*time.Second, func() time.Time { return now })

	assert.False(t, cache.MarkIfAbsent("sess-1:capture"))

	// Через 4 секунды маркер ещё жив
	now = now.Add(4 * time.Second)
	assert.True(t, cache.MarkIfAbsent("sess-1:capture"))

	// Повтор продлил маркер? Нет: MarkIfAbsent при дубле не переставляет срок
	now = now.Add(2 * time.Second)
	assert.False(t, cache.MarkIfAbsent("sess-1:capture"))
}

func TestEvictExpired(t *testing.T) {
	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	cache := NewWithClock(5*time.Second, func() time.Time { return now })

	cache.MarkIfAbsent("a")
	cache.MarkIfAbsent("b")
	assert.Equal(t, 2, cache.Len())

	now = now.Add(10 * time.Second)
	// Постановка нового маркера вычищает истёкшие
	cache.MarkIfAbsent("c")
	assert.Equal(t, 1, cache.Len())
}
