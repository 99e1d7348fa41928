package qdrant

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/poiesic/flowdex/core"
	"github.com/poiesic/flowdex/store"
)

const distanceCosine = "Cosine"

type vectorParams struct {
	Size     int    `json:"size"`
	Distance string `json:"distance"`
}

type createCollectionRequest struct {
	Vectors vectorParams `json:"vectors"`
}

type collectionDescription struct {
	PointsCount int64 `json:"points_count"`
	Config      struct {
		Params struct {
			Vectors vectorParams `json:"vectors"`
		} `json:"params"`
	} `json:"config"`
}

// CollectionExists reports whether the scope's collection exists.
func (c *Client) CollectionExists(ctx context.Context, scope core.Scope) (bool, error) {
	_, code, err := c.do(ctx, http.MethodGet, "/collections/"+scope.CollectionName(), nil)
	if err != nil {
		return false, err
	}
	return code != http.StatusNotFound, nil
}

// CollectionInfo returns configuration and size of the scope's collection.
func (c *Client) CollectionInfo(ctx context.Context, scope core.Scope) (*store.CollectionInfo, error) {
	name := scope.CollectionName()
	result, code, err := c.do(ctx, http.MethodGet, "/collections/"+name, nil)
	if err != nil {
		return nil, err
	}
	if code == http.StatusNotFound {
		return nil, fmt.Errorf("%w: %s", store.ErrCollectionNotFound, name)
	}

	var desc collectionDescription
	if err := json.Unmarshal(result, &desc); err != nil {
		return nil, fmt.Errorf("%w: decode collection info: %w", store.ErrRequestFailed, err)
	}
	return &store.CollectionInfo{
		Name:        name,
		VectorSize:  desc.Config.Params.Vectors.Size,
		Distance:    desc.Config.Params.Vectors.Distance,
		PointsCount: desc.PointsCount,
	}, nil
}

// CreateCollection ensures the scope's collection exists with the given
// vector size. Creating an existing collection with the same size is a
// no-op; a different size returns ErrDimensionMismatch.
func (c *Client) CreateCollection(ctx context.Context, scope core.Scope, vectorSize int) (bool, error) {
	name := scope.CollectionName()

	info, err := c.CollectionInfo(ctx, scope)
	switch {
	case err == nil:
		if info.VectorSize != vectorSize {
			return false, fmt.Errorf("%w: collection %s has size %d, requested %d",
				store.ErrDimensionMismatch, name, info.VectorSize, vectorSize)
		}
		c.logger.Debug("collection already exists", "collection", name, "vector_size", vectorSize)
		return false, nil
	case isNotFound(err):
		// fall through to create
	default:
		return false, err
	}

	body := createCollectionRequest{Vectors: vectorParams{Size: vectorSize, Distance: distanceCosine}}
	if _, _, err := c.do(ctx, http.MethodPut, "/collections/"+name, body); err != nil {
		return false, err
	}
	c.logger.Info("created collection", "collection", name, "vector_size", vectorSize)
	return true, nil
}

// DeleteCollection removes the scope's collection. Deleting an absent
// collection is a successful no-op.
func (c *Client) DeleteCollection(ctx context.Context, scope core.Scope) (bool, error) {
	name := scope.CollectionName()
	_, code, err := c.do(ctx, http.MethodDelete, "/collections/"+name, nil)
	if err != nil {
		return false, err
	}
	if code == http.StatusNotFound {
		return false, nil
	}
	c.logger.Info("deleted collection", "collection", name)
	return true, nil
}
