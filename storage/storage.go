package storage

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/policy"
	"github.com/Azure/azure-sdk-for-go/sdk/data/aztables"
	log "github.com/sirupsen/logrus"

	"verva-api/domain"
)

// Each user owns exactly one row holding the full serialized collection.
const taskRowKey = "tasks"

// blobVersion is written into every envelope so the format can migrate later.
const blobVersion = 1

// Storage persists one task collection per user in an Azure table.
type Storage struct {
	taskTable *aztables.Client
}

// New creates a Storage instance from the given connection string.
func New(connStr, tasksTable string) (*Storage, error) {
	tablesClientOptions := aztables.ClientOptions{
		ClientOptions: azcore.ClientOptions{
			Retry: policy.RetryOptions{
				MaxRetries:    3,
				TryTimeout:    time.Minute * 3,
				RetryDelay:    time.Second * 1,
				MaxRetryDelay: time.Second * 15,
				StatusCodes:   []int{408, 429, 500, 502, 503, 504},
			},
		},
	}
	svc, err := aztables.NewServiceClientFromConnectionString(connStr, &tablesClientOptions)
	if err != nil {
		return nil, err
	}
	return &Storage{taskTable: svc.NewClient(tasksTable)}, nil
}

type taskEntity struct {
	aztables.Entity
	Data string `json:"Data"`
}

type taskBlob struct {
	Version int           `json:"version"`
	Tasks   []domain.Task `json:"tasks"`
}

func encodeTaskBlob(tasks []domain.Task) (string, error) {
	if tasks == nil {
		tasks = []domain.Task{}
	}
	data, err := json.Marshal(taskBlob{Version: blobVersion, Tasks: tasks})
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// decodeTaskBlob parses a stored envelope. Malformed or unversioned payloads
// are reported as an error so callers can fall back to an empty collection.
func decodeTaskBlob(data string) ([]domain.Task, error) {
	var blob taskBlob
	if err := json.Unmarshal([]byte(data), &blob); err != nil {
		return nil, err
	}
	if blob.Version != blobVersion {
		return nil, errors.New("unsupported task blob version")
	}
	if blob.Tasks == nil {
		blob.Tasks = []domain.Task{}
	}
	return blob.Tasks, nil
}

// Load retrieves the task collection for the provided user. A missing row
// yields an empty collection, and so does a corrupt one: losing a blob is
// recoverable, crashing the session is not.
func (s *Storage) Load(ctx context.Context, userID string) ([]domain.Task, error) {
	resp, err := s.taskTable.GetEntity(ctx, userID, taskRowKey, nil)
	if err != nil {
		var respErr *azcore.ResponseError
		if errors.As(err, &respErr) && respErr.StatusCode == http.StatusNotFound {
			return []domain.Task{}, nil
		}
		return nil, err
	}
	var ent taskEntity
	if err := json.Unmarshal(resp.Value, &ent); err != nil {
		log.WithField("user", userID).Warnf("unreadable task entity, starting empty: %v", err)
		return []domain.Task{}, nil
	}
	tasks, err := decodeTaskBlob(ent.Data)
	if err != nil {
		log.WithField("user", userID).Warnf("corrupt task blob, starting empty: %v", err)
		return []domain.Task{}, nil
	}
	return tasks, nil
}

// Save replaces the stored collection for the provided user.
func (s *Storage) Save(ctx context.Context, userID string, tasks []domain.Task) error {
	data, err := encodeTaskBlob(tasks)
	if err != nil {
		return err
	}
	ent := taskEntity{
		Entity: aztables.Entity{PartitionKey: userID, RowKey: taskRowKey},
		Data:   data,
	}
	payload, err := json.Marshal(ent)
	if err != nil {
		return err
	}
	_, err = s.taskTable.UpsertEntity(ctx, payload, &aztables.UpsertEntityOptions{
		UpdateMode: aztables.UpdateModeReplace,
	})
	return err
}
