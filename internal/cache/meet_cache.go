package cache

import (
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// MeetLinkCache — процесс-локальный TTL-кэш соответствия
// meet-токен → id сессии. Не является источником истины:
// протухшая запись означает лишь что ссылку нужно перевыпустить.
type MeetLinkCache struct {
	lru *expirable.LRU[string, int64]
}

// NewMeetLinkCache создаёт кэш. size=0 — без ограничения по размеру.
func NewMeetLinkCache(size int, ttl time.Duration) *MeetLinkCache {
	return &MeetLinkCache{
		lru: expirable.NewLRU[string, int64](size, nil, ttl),
	}
}

// Put сохраняет токен на время TTL
func (c *MeetLinkCache) Put(token string, sessionID int64) {
	c.lru.Add(token, sessionID)
}

// Get возвращает id сессии по токену
func (c *MeetLinkCache) Get(token string) (int64, bool) {
	return c.lru.Get(token)
}

// Delete удаляет токен (например после отклонения сессии)
func (c *MeetLinkCache) Delete(token string) {
	c.lru.Remove(token)
}
