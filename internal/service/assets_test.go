package service

import (
	"studio-service/internal/audit"
	"studio-service/internal/domain/account"
	"studio-service/internal/storage"
	apperrors "studio-service/pkg/errors"
	"sort"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUploadAsset_VersionsStartAtOneWithoutGaps(t *testing.T) {
	f := newFixture(t)
	acct := f.account(t)
	client := f.client(t, acct)
	producer := f.profile(t, account.ProfileProducer, nil)
	p, _ := f.project(t, client, acct)

	for want := 1; want <= 3; want++ {
		a, err := f.assets.UploadAsset(f.ctx, producer, UploadAssetRequest{ProjectID: p.ID, File: file("cut.png")})
		require.NoError(t, err)
		assert.Equal(t, want, a.Version)
		assert.Equal(t, "image/png", a.Type)
		assert.False(t, a.IsFinal)
	}

	list, err := f.assets.ListAssets(f.ctx, client, p.ID)
	require.NoError(t, err)
	require.Len(t, list, 3)
	for i, a := range list {
		assert.Equal(t, i+1, a.Version)
	}
}

func TestUploadAsset_ConcurrentVersionsAreContiguous(t *testing.T) {
	f := newFixture(t)
	acct := f.account(t)
	client := f.client(t, acct)
	producer := f.profile(t, account.ProfileProducer, nil)
	p, _ := f.project(t, client, acct)

	const uploads = 20
	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		versions []int
	)
	for i := 0; i < uploads; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			a, err := f.assets.UploadAsset(f.ctx, producer, UploadAssetRequest{ProjectID: p.ID, File: file("cut.png")})
			if !assert.NoError(t, err) {
				return
			}
			mu.Lock()
			versions = append(versions, a.Version)
			mu.Unlock()
		}()
	}
	wg.Wait()

	sort.Ints(versions)
	want := make([]int, uploads)
	for i := range want {
		want[i] = i + 1
	}
	assert.Equal(t, want, versions)

	keys, err := f.bucket.List(f.ctx, storage.ProjectPrefix(p.ID))
	require.NoError(t, err)
	assert.Len(t, keys, uploads)
}

func TestMarkAssetAsFinal_OnlyLatestPromotionIsFinal(t *testing.T) {
	f := newFixture(t)
	acct := f.account(t)
	client := f.client(t, acct)
	producer := f.profile(t, account.ProfileProducer, nil)
	p, _ := f.project(t, client, acct)

	v1, err := f.assets.UploadAsset(f.ctx, producer, UploadAssetRequest{ProjectID: p.ID, File: file("v1.png")})
	require.NoError(t, err)
	v2, err := f.assets.UploadAsset(f.ctx, producer, UploadAssetRequest{ProjectID: p.ID, File: file("v2.png")})
	require.NoError(t, err)

	_, err = f.assets.MarkAssetAsFinal(f.ctx, producer, v1.ID)
	require.NoError(t, err)
	final, err := f.assets.MarkAssetAsFinal(f.ctx, producer, v2.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, final.Version)

	list, err := f.assets.ListAssets(f.ctx, producer, p.ID)
	require.NoError(t, err)
	finals := 0
	for _, a := range list {
		if a.IsFinal {
			finals++
			assert.Equal(t, v2.ID, a.ID)
		}
	}
	assert.Equal(t, 1, finals)

	got, err := f.assets.GetFinalAsset(f.ctx, client, p.ID)
	require.NoError(t, err)
	assert.Equal(t, v2.ID, got.ID)
	assert.Equal(t, []audit.Action{audit.ActionFinalize, audit.ActionFinalize}, f.auditor.actions(audit.ResourceTypeAsset))
}

func TestMarkAssetAsFinal_ClientForbidden(t *testing.T) {
	f := newFixture(t)
	acct := f.account(t)
	client := f.client(t, acct)
	producer := f.profile(t, account.ProfileProducer, nil)
	p, _ := f.project(t, client, acct)

	a, err := f.assets.UploadAsset(f.ctx, producer, UploadAssetRequest{ProjectID: p.ID, File: file("v1.png")})
	require.NoError(t, err)

	_, err = f.assets.MarkAssetAsFinal(f.ctx, client, a.ID)
	assert.ErrorIs(t, err, apperrors.ErrForbidden)
}

func TestUploadAsset_InsertFailureRemovesStoredObject(t *testing.T) {
	f := newFixture(t, func(o *overrides) {
		o.assets = failingAssets{o.assets}
	})
	acct := f.account(t)
	client := f.client(t, acct)
	producer := f.profile(t, account.ProfileProducer, nil)
	p, _ := f.project(t, client, acct)

	_, err := f.assets.UploadAsset(f.ctx, producer, UploadAssetRequest{ProjectID: p.ID, File: file("cut.png")})
	assert.ErrorIs(t, err, errInjected)

	keys, err := f.bucket.List(f.ctx, storage.ProjectPrefix(p.ID))
	require.NoError(t, err)
	assert.Empty(t, keys)
}

func TestUploadAsset_StorageFailureIsExternal(t *testing.T) {
	f := newFixture(t, func(o *overrides) {
		o.objects = &flakyObjects{ObjectStore: o.objects, failPut: true}
	})
	acct := f.account(t)
	client := f.client(t, acct)
	producer := f.profile(t, account.ProfileProducer, nil)
	p, _ := f.project(t, client, acct)

	_, err := f.assets.UploadAsset(f.ctx, producer, UploadAssetRequest{ProjectID: p.ID, File: file("cut.png")})
	assert.ErrorIs(t, err, apperrors.ErrExternalService)

	list, err := f.assets.ListAssets(f.ctx, producer, p.ID)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestUploadAsset_Validation(t *testing.T) {
	f := newFixture(t)
	acct := f.account(t)
	client := f.client(t, acct)
	producer := f.profile(t, account.ProfileProducer, nil)
	p, _ := f.project(t, client, acct)

	tests := []struct {
		name string
		file Upload
	}{
		{"empty body", Upload{FileName: "a.png"}},
		{"path in name", Upload{FileName: "../a.png", Body: []byte("x")}},
		{"too large", Upload{FileName: "a.png", Body: make([]byte, testMaxUpload+1)}},
		{"bad content type", Upload{FileName: "a.png", ContentType: "not a type", Body: []byte("x")}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.assets.UploadAsset(f.ctx, producer, UploadAssetRequest{ProjectID: p.ID, File: tt.file})
			assert.ErrorIs(t, err, apperrors.ErrValidation)
		})
	}
}

func TestUploadAsset_UnassignedCreativeForbidden(t *testing.T) {
	f := newFixture(t)
	acct := f.account(t)
	client := f.client(t, acct)
	producer := f.profile(t, account.ProfileProducer, nil)
	creative := f.profile(t, account.ProfileCreative, nil)
	p, _ := f.project(t, client, acct)

	_, err := f.assets.UploadAsset(f.ctx, creative, UploadAssetRequest{ProjectID: p.ID, File: file("a.png")})
	assert.ErrorIs(t, err, apperrors.ErrForbidden)

	f.assign(t, producer, creative, p.ID)
	_, err = f.assets.UploadAsset(f.ctx, creative, UploadAssetRequest{ProjectID: p.ID, File: file("a.png")})
	assert.NoError(t, err)
}

func TestDeleteAsset_RemovesObjectAndRow(t *testing.T) {
	f := newFixture(t)
	acct := f.account(t)
	client := f.client(t, acct)
	producer := f.profile(t, account.ProfileProducer, nil)
	p, _ := f.project(t, client, acct)

	a, err := f.assets.UploadAsset(f.ctx, producer, UploadAssetRequest{ProjectID: p.ID, File: file("a.png")})
	require.NoError(t, err)

	require.NoError(t, f.assets.DeleteAsset(f.ctx, producer, a.ID))

	keys, err := f.bucket.List(f.ctx, storage.ProjectPrefix(p.ID))
	require.NoError(t, err)
	assert.Empty(t, keys)

	err = f.assets.DeleteAsset(f.ctx, producer, a.ID)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.Contains(t, f.auditor.actions(audit.ResourceTypeAsset), audit.ActionDelete)
}

func TestDeleteAsset_StorageFailureStillDeletesRow(t *testing.T) {
	flaky := &flakyObjects{}
	f := newFixture(t, func(o *overrides) {
		flaky.ObjectStore = o.objects
		o.objects = flaky
	})
	acct := f.account(t)
	client := f.client(t, acct)
	producer := f.profile(t, account.ProfileProducer, nil)
	p, _ := f.project(t, client, acct)

	a, err := f.assets.UploadAsset(f.ctx, producer, UploadAssetRequest{ProjectID: p.ID, File: file("a.png")})
	require.NoError(t, err)

	flaky.failDelete = true
	require.NoError(t, f.assets.DeleteAsset(f.ctx, producer, a.ID))

	list, err := f.assets.ListAssets(f.ctx, producer, p.ID)
	require.NoError(t, err)
	assert.Empty(t, list)

	keys, err := f.bucket.List(f.ctx, storage.ProjectPrefix(p.ID))
	require.NoError(t, err)
	assert.Len(t, keys, 1)
}

func TestGetFinalAsset_NoneIsNotFound(t *testing.T) {
	f := newFixture(t)
	acct := f.account(t)
	client := f.client(t, acct)
	p, _ := f.project(t, client, acct)

	_, err := f.assets.GetFinalAsset(f.ctx, client, p.ID)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}
