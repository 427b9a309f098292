package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"

	"github.com/vendorconnect/vendorconnect-backend/internal/app"
	"github.com/vendorconnect/vendorconnect-backend/internal/platform/dbctx"
	"github.com/vendorconnect/vendorconnect-backend/internal/services"
)

type idList []string

func (l *idList) String() string { return strings.Join(*l, ",") }
func (l *idList) Set(v string) error {
	v = strings.TrimSpace(v)
	if v != "" {
		*l = append(*l, v)
	}
	return nil
}

func main() {
	var users idList
	var dryRun bool
	var concurrency int
	flag.Var(&users, "user", "user_id to recalculate (repeatable); all users when omitted")
	flag.BoolVar(&dryRun, "dry-run", false, "print computed scores without writing them")
	flag.IntVar(&concurrency, "concurrency", 0, "override TRUST_BATCH_CONCURRENCY")
	flag.Parse()

	if concurrency > 0 {
		_ = os.Setenv("TRUST_BATCH_CONCURRENCY", fmt.Sprint(concurrency))
	}

	application, err := app.New()
	if err != nil {
		fmt.Printf("init app: %v\n", err)
		os.Exit(1)
	}
	defer application.Close()

	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx}

	var ids []uuid.UUID
	if len(users) > 0 {
		for _, s := range users {
			id, err := uuid.Parse(strings.TrimSpace(s))
			if err == nil && id != uuid.Nil {
				ids = append(ids, id)
			}
		}
		if len(ids) == 0 {
			fmt.Println("no valid user_id values provided")
			return
		}
	} else if dryRun {
		ids, err = application.Repos.User.ListIDs(dbc, "")
		if err != nil {
			fmt.Printf("list users: %v\n", err)
			os.Exit(1)
		}
	}

	if dryRun {
		for _, id := range ids {
			score, err := application.Services.TrustScore.Recalculate(dbc, id)
			if err != nil {
				fmt.Printf("[dry-run] user_id=%s error=%v\n", id, err)
				continue
			}
			fmt.Printf("[dry-run] user_id=%s score=%.2f\n", id, score)
		}
		return
	}

	var res services.BatchResult
	if len(ids) > 0 {
		res = application.Services.TrustScore.RecalculateUsers(dbc, ids)
	} else {
		res, err = application.Services.TrustScore.TriggerRecalculationForAll(dbc)
		if err != nil {
			fmt.Printf("recalculate all: %v\n", err)
			os.Exit(1)
		}
	}
	for _, id := range res.FailedUserIDs {
		fmt.Printf("failed user_id=%s\n", id)
	}
	fmt.Printf("done; total=%d succeeded=%d failed=%d\n", res.Total, res.Succeeded, res.Failed)
	if res.Failed > 0 {
		application.Close()
		os.Exit(2)
	}
}
