package vesi

import (
	"errors"

	"github.com/vesi-vcs/vesi/plumbing"
	"github.com/vesi-vcs/vesi/plumbing/object"
)

// CreateCommit composes and writes a commit object per spec §4.10
// (tree, parents, author, committer, message), then updates the
// current ref: the branch HEAD points at if HEAD is symbolic, or HEAD
// itself if HEAD is detached or no HEAD file exists.
func (r *Repository) CreateCommit(treeHash plumbing.Hash, parents []plumbing.Hash, author, committer object.Signature, message string) (plumbing.Hash, error) {
	h, err := object.NewCommit(r.Storage, object.CommitParams{
		TreeHash:     treeHash,
		ParentHashes: parents,
		Author:       author,
		Committer:    committer,
		Message:      message,
	})
	if err != nil {
		return plumbing.ZeroHash, err
	}

	if err := r.updateHEAD(h); err != nil {
		return plumbing.ZeroHash, err
	}

	return h, nil
}

// updateHEAD writes h into whatever HEAD currently resolves to: the
// branch file it symbolically targets (created if it does not yet
// exist), or HEAD itself when HEAD is detached or no HEAD file exists.
func (r *Repository) updateHEAD(h plumbing.Hash) error {
	head, err := r.Storage.Reference(plumbing.HEAD)
	if err != nil {
		if errors.Is(err, plumbing.ErrReferenceNotFound) {
			return r.Storage.SetReference(plumbing.NewHashReference(plumbing.HEAD, h))
		}
		return err
	}

	if head.Type() == plumbing.SymbolicReference {
		return r.Storage.SetReference(plumbing.NewHashReference(head.Target(), h))
	}

	return r.Storage.SetReference(plumbing.NewHashReference(plumbing.HEAD, h))
}

// CreateAnnotatedTag composes and writes an annotated tag object
// pointing at target, then writes refs/tags/{name} at the tag object.
func (r *Repository) CreateAnnotatedTag(name string, target plumbing.Hash, targetType plumbing.ObjectType, tagger object.Signature, message string) (plumbing.Hash, error) {
	h, err := object.NewTag(r.Storage, object.TagParams{
		Target:     target,
		TargetType: targetType,
		Name:       name,
		Tagger:     tagger,
		Message:    message,
	})
	if err != nil {
		return plumbing.ZeroHash, err
	}

	ref := plumbing.NewHashReference(plumbing.NewTagReferenceName(name), h)
	if err := r.Storage.SetReference(ref); err != nil {
		return plumbing.ZeroHash, err
	}

	return h, nil
}

// CreateLightweightTag writes refs/tags/{name} pointing directly at
// target, with no intervening tag object.
func (r *Repository) CreateLightweightTag(name string, target plumbing.Hash) error {
	return r.Storage.SetReference(plumbing.NewHashReference(plumbing.NewTagReferenceName(name), target))
}
