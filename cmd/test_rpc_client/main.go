package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"sync"
	"sync/atomic"
	"time"

	grpc_adapter "github.com/JoeShih716/go-remittance/internal/app/core/adapter/in/grpc"
	"github.com/JoeShih716/go-remittance/internal/app/core/domain"
	grpcpkg "github.com/JoeShih716/go-remittance/pkg/grpc"
)

const (
	TotalCount     = 10000
	Concurrency    = 100
	InitialBalance = 1_000_000
	Amount         = 100
)

// 兩個帳戶同時互相轉帳 (A -> B 與 B -> A)，驗證不會死鎖且總額守恆:
// 最後 A + B = 2 * InitialBalance - 成功筆數的手續費總和
func main() {
	target := flag.String("target", "localhost:50051", "grpc server address")
	flag.Parse()

	pool := grpcpkg.NewPool()
	defer pool.Close()
	conn, err := pool.GetConnection(*target)
	if err != nil {
		log.Fatalf("did not connect: %v", err)
	}
	c := grpc_adapter.NewClient(conn)

	ctx, cancel := context.WithTimeout(context.Background(), 120*time.Second)
	defer cancel()

	suffix := time.Now().UnixNano()
	accountA := fmt.Sprintf("load-a-%d", suffix)
	accountB := fmt.Sprintf("load-b-%d", suffix)
	for _, accountNo := range []string{accountA, accountB} {
		if _, err := c.CreateAccount(ctx, &grpc_adapter.CreateAccountRequest{AccountNo: accountNo}); err != nil {
			log.Fatalf("create account %s: %v", accountNo, err)
		}
		if _, err := c.Deposit(ctx, &grpc_adapter.AmountRequest{AccountNo: accountNo, Amount: InitialBalance}); err != nil {
			log.Fatalf("deposit %s: %v", accountNo, err)
		}
	}

	var wg sync.WaitGroup
	wg.Add(TotalCount)
	sem := make(chan struct{}, Concurrency)

	var succeeded, rejected, failed atomic.Int64
	var totalFee atomic.Int64

	startTime := time.Now()
	for i := 0; i < TotalCount; i++ {
		sem <- struct{}{}

		go func(idx int) {
			defer wg.Done()
			defer func() { <-sem }()

			from, to := accountA, accountB
			if idx%2 == 1 {
				from, to = accountB, accountA
			}
			resp, err := c.Remit(ctx, &grpc_adapter.RemitRequest{FromAccountNo: from, ToAccountNo: to, Amount: Amount})
			if err != nil {
				var domainErr *domain.Error
				if errors.As(err, &domainErr) {
					rejected.Add(1)
					return
				}
				failed.Add(1)
				if idx%1000 == 0 {
					log.Printf("Remit %d failed: %v", idx, err)
				}
				return
			}
			succeeded.Add(1)
			totalFee.Add(resp.Fee)
		}(i)
	}
	wg.Wait()
	elapsed := time.Since(startTime)

	a, err := c.GetAccount(ctx, &grpc_adapter.AccountRequest{AccountNo: accountA})
	if err != nil {
		log.Fatalf("get account: %v", err)
	}
	b, err := c.GetAccount(ctx, &grpc_adapter.AccountRequest{AccountNo: accountB})
	if err != nil {
		log.Fatalf("get account: %v", err)
	}

	fmt.Printf("Completed %d requests in %v\n", TotalCount, elapsed)
	fmt.Printf("TPS: %.2f\n", float64(TotalCount)/elapsed.Seconds())
	fmt.Printf("Succeeded: %d, Rejected: %d, Failed: %d\n", succeeded.Load(), rejected.Load(), failed.Load())

	expected := 2*InitialBalance - totalFee.Load()
	fmt.Printf("Balance A: %d, B: %d, Sum: %d, Expected: %d\n", a.Balance, b.Balance, a.Balance+b.Balance, expected)
	if a.Balance+b.Balance != expected {
		log.Fatalf("conservation violated")
	}
}
