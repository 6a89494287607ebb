package firestore

import (
	"context"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/kensho-lab/acwatch/pkg/domain/interfaces"
	"github.com/kensho-lab/acwatch/pkg/domain/model"
)

const (
	watchCollection = "acwatch"
	watchDocument   = "watch_config"
)

type watchRepository struct {
	client           *firestore.Client
	collectionPrefix string
}

var _ interfaces.WatchRepository = &watchRepository{}

func newWatchRepository(client *firestore.Client) *watchRepository {
	return &watchRepository{
		client: client,
	}
}

// watchDoc is the Firestore persistence model
type watchDoc struct {
	Channel string   `firestore:"channel"`
	Users   []string `firestore:"users"`
}

func (r *watchRepository) doc() *firestore.DocumentRef {
	collection := watchCollection
	if r.collectionPrefix != "" {
		collection = r.collectionPrefix + "_" + watchCollection
	}
	return r.client.Collection(collection).Doc(watchDocument)
}

func (r *watchRepository) Get(ctx context.Context) (*model.WatchConfig, error) {
	snap, err := r.doc().Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, interfaces.ErrNotFound
		}
		return nil, goerr.Wrap(err, "failed to get watch config")
	}

	var doc watchDoc
	if err := snap.DataTo(&doc); err != nil {
		return nil, goerr.Wrap(err, "failed to decode watch config")
	}

	return &model.WatchConfig{
		Channel: doc.Channel,
		Users:   doc.Users,
	}, nil
}

func (r *watchRepository) Save(ctx context.Context, cfg *model.WatchConfig) error {
	doc := watchDoc{
		Channel: cfg.Channel,
		Users:   cfg.Users,
	}
	if _, err := r.doc().Set(ctx, doc); err != nil {
		return goerr.Wrap(err, "failed to save watch config")
	}
	return nil
}

// Delete wipes the whole collection instead of the single known document so
// that records written under older document names are cleared too.
func (r *watchRepository) Delete(ctx context.Context) error {
	iter := r.doc().Parent.Documents(ctx)
	defer iter.Stop()

	var refs []*firestore.DocumentRef
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return goerr.Wrap(err, "failed to iterate watch config documents")
		}
		refs = append(refs, doc.Ref)
	}

	if len(refs) == 0 {
		return nil
	}

	bulkWriter := r.client.BulkWriter(ctx)
	defer bulkWriter.End()

	jobs := make([]*firestore.BulkWriterJob, 0, len(refs))
	for _, ref := range refs {
		job, err := bulkWriter.Delete(ref)
		if err != nil {
			return goerr.Wrap(err, "failed to add delete operation to bulk writer")
		}
		jobs = append(jobs, job)
	}
	bulkWriter.Flush()

	for i, job := range jobs {
		if _, err := job.Results(); err != nil {
			return goerr.Wrap(err, "failed to delete watch config document",
				goerr.V("path", refs[i].Path))
		}
	}

	return nil
}
