package firestoredb

import (
	"context"

	"obras-backend/internal/domain/report"
	"obras-backend/internal/domain/uow"

	"cloud.google.com/go/firestore"
)

// FirestoreUoW runs units of work as Firestore transactions. Firestore may
// call fn more than once when the transaction contends, so fn must not keep
// state from a previous attempt.
type FirestoreUoW struct{ client *firestore.Client }

func NewFirestoreUoW(client *firestore.Client) *FirestoreUoW { return &FirestoreUoW{client: client} }

func repos(s store) uow.Repos {
	return uow.Repos{
		Companies: &CompanyRepository{s: s},
		Projects:  &ProjectRepository{s: s},
		Workers:   &WorkerRepository{s: s},
		Machinery: &MachineryRepository{s: s},
		Reports:   &ReportRepository{s: s},
	}
}

func (u *FirestoreUoW) WithinTx(ctx context.Context, fn func(r uow.Repos) error) error {
	return u.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		return fn(repos(store{client: u.client, tx: tx}))
	})
}

func (u *FirestoreUoW) WithinReportTx(ctx context.Context, reportID string, fn func(r uow.Repos, rep *report.DailyReport) error) error {
	return u.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		r := repos(store{client: u.client, tx: tx})
		rep, err := r.Reports.GetByReportIDForUpdate(ctx, reportID)
		if err != nil {
			return err
		}
		return fn(r, rep)
	})
}
