package domain

// LockOrder 回傳兩個帳戶 ID 的鎖定順序 (小的先鎖)，避免死鎖
//
// 任何同時鎖定兩個帳戶的操作都必須依此順序取得鎖，
// 不論哪一方是付款人。A->B 與 B->A 的並發轉帳因此會以相同順序競爭鎖，不會形成循環等待。
func LockOrder(a, b int64) (first, second int64) {
	if a < b {
		return a, b
	}
	return b, a
}
