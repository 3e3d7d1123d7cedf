package utils

import (
	"sync/atomic"
)

// History 无锁环形缓冲区, 保留最近写入的 size 个元素
type History[T any] struct {
	data []atomic.Pointer[T]
	head atomic.Int64
}

func NewHistory[T any](size int) *History[T] {
	if size < 1 {
		size = 1
	}
	return &History[T]{data: make([]atomic.Pointer[T], size)}
}

// Add 添加元素（无锁）, 超出容量时覆盖最旧的元素
func (h *History[T]) Add(item *T) {
	pos := h.head.Add(1) - 1
	h.data[pos%int64(len(h.data))].Store(item)
}

func (h *History[T]) Len() int {
	return int(min(h.head.Load(), int64(len(h.data))))
}

func (h *History[T]) Cap() int {
	return len(h.data)
}

// GetAll 按写入顺序返回当前保留的元素, 从旧到新
func (h *History[T]) GetAll() []*T {
	head := h.head.Load()
	size := int64(len(h.data))
	count := min(head, size)
	if count == 0 {
		return nil
	}

	result := make([]*T, 0, count)
	for pos := head - count; pos < head; pos++ {
		if item := h.data[pos%size].Load(); item != nil {
			result = append(result, item)
		}
	}
	return result
}
