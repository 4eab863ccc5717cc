package dedupcache

import (
	"sync"
	"time"
)

// Cache короткоживущий маркерный кэш для подавления дублирующихся запросов
// Маркер ставится на ключ и живёт ttl; повторная постановка в течение ttl
// сообщает о дубле. Гарантия best-effort: гонка двух одновременных запросов
// допустима, кэш не является механизмом резервирования.
type Cache struct {
	mu      sync.Mutex
	ttl     time.Duration
	entries map[string]time.Time
	now     func() time.Time
}

// New создает кэш маркеров с указанным временем жизни
func New(ttl time.Duration) *Cache {
	return &Cache{
		ttl:     ttl,
		entries: make(map[string]time.Time),
		now:     time.Now,
	}
}

// NewWithClock создает кэш с подменяемыми часами (для тестов)
func NewWithClock(ttl time.Duration, now func() time.Time) *Cache {
	c := New(ttl)
	c.now = now
	return c
}

// MarkIfAbsent ставит маркер на ключ
// Возвращает true, если маркер уже стоял и не истёк (то есть запрос - дубль)
func (c *Cache) MarkIfAbsent(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()

	if expiry, ok := c.entries[key]; ok && now.Before(expiry) {
		return true
	}

	c.entries[key] = now.Add(c.ttl)
	c.evictExpired(now)
	return false
}

// Len возвращает количество живых маркеров
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	n := 0
	now := c.now()
	for _, expiry := range c.entries {
		if now.Before(expiry) {
			n++
		}
	}
	return n
}

// evictExpired удаляет истёкшие маркеры, вызывается под мьютексом
func (c *Cache) evictExpired(now time.Time) {
	for key, expiry := range c.entries {
		if !now.Before(expiry) {
			delete(c.entries, key)
		}
	}
}
