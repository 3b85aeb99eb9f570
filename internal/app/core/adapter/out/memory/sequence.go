package memory

import "sync/atomic"

// sequences 模擬資料庫的 auto increment，rollback 的 ID 不會回收
type sequences struct {
	account atomic.Int64
	limit   atomic.Int64
	entry   atomic.Int64
}

func (s *sequences) nextAccount() int64 { return s.account.Add(1) }
func (s *sequences) nextLimit() int64   { return s.limit.Add(1) }
func (s *sequences) nextEntry() int64   { return s.entry.Add(1) }

func (s *sequences) observeAccount(id int64) { observe(&s.account, id) }
func (s *sequences) observeLimit(id int64)   { observe(&s.limit, id) }
func (s *sequences) observeEntry(id int64)   { observe(&s.entry, id) }

// observe 確保之後分配的 ID 大於 WAL 重放過的 ID
func observe(seq *atomic.Int64, id int64) {
	for {
		current := seq.Load()
		if id <= current || seq.CompareAndSwap(current, id) {
			return
		}
	}
}
