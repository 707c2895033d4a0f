package api

import (
	"encoding/json"
	"sync"

	"seisan/models"

	"github.com/gin-gonic/gin"
)

// commentEvent コメントストリームで配信するイベント
type commentEvent struct {
	Type      string           `json:"type"` // snapshot | created | deleted
	Comment   *models.Comment  `json:"comment,omitempty"`
	CommentID uint             `json:"comment_id,omitempty"`
	Comments  []models.Comment `json:"comments,omitempty"` // snapshot のみ
}

// writeSSEJSON SSE のデータフレームとして JSON を書き出す
func writeSSEJSON(c *gin.Context, v any) bool {
	b, err := json.Marshal(v)
	if err != nil {
		return false
	}
	if _, err := c.Writer.WriteString("data: " + string(b) + "\n\n"); err != nil {
		return false
	}
	c.Writer.Flush()
	return true
}

// CommentBroker 精算IDごとの購読者にコメントイベントを配信するプロセス内ブローカー
type CommentBroker struct {
	mu          sync.RWMutex
	subscribers map[uint]map[chan commentEvent]struct{}
}

// commentBroker コメント配信のグローバルインスタンス
var commentBroker = &CommentBroker{
	subscribers: make(map[uint]map[chan commentEvent]struct{}),
}

// Subscribe 指定した精算のイベント購読を開始する
// 返却された cancel は表示終了時に必ず呼ぶこと（購読の解放）
func (b *CommentBroker) Subscribe(settlementID uint) (<-chan commentEvent, func()) {
	ch := make(chan commentEvent, 16)

	b.mu.Lock()
	subs, ok := b.subscribers[settlementID]
	if !ok {
		subs = make(map[chan commentEvent]struct{})
		b.subscribers[settlementID] = subs
	}
	subs[ch] = struct{}{}
	b.mu.Unlock()

	cancel := func() {
		b.mu.Lock()
		if subs, ok := b.subscribers[settlementID]; ok {
			delete(subs, ch)
			if len(subs) == 0 {
				delete(b.subscribers, settlementID)
			}
		}
		b.mu.Unlock()
	}
	return ch, cancel
}

// Publish 指定した精算の購読者全員へイベントを配信する
// 受信が追いつかない購読者へはイベントを落とす（配信は最新スナップショットの再取得で回復できる）
func (b *CommentBroker) Publish(settlementID uint, ev commentEvent) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for ch := range b.subscribers[settlementID] {
		select {
		case ch <- ev:
		default:
		}
	}
}

// SubscriberCount 購読者数（テスト用）
func (b *CommentBroker) SubscriberCount(settlementID uint) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subscribers[settlementID])
}
