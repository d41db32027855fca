package storage

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalDiskLifecycle(t *testing.T) {
	ctx := context.Background()
	disk, err := NewLocalDisk(t.TempDir(), "http://localhost:8080/public/")
	require.NoError(t, err)

	require.NoError(t, disk.Put(ctx, "avatars/a.png", strings.NewReader("png"), "image/png"))

	ok, err := disk.Exists(ctx, "avatars/a.png")
	require.NoError(t, err)
	assert.True(t, ok)

	data, err := disk.Get(ctx, "avatars/a.png")
	require.NoError(t, err)
	assert.Equal(t, "png", string(data))
	assert.Equal(t, "http://localhost:8080/public/avatars/a.png", disk.URL("avatars/a.png"))

	require.NoError(t, disk.Delete(ctx, "avatars/a.png"))
	require.NoError(t, disk.Delete(ctx, "avatars/a.png"))

	_, err = disk.Get(ctx, "avatars/a.png")
	assert.ErrorIs(t, err, ErrNotExist)
}

func TestLocalDiskStaysInsideRoot(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()
	disk, err := NewLocalDisk(root, "")
	require.NoError(t, err)

	require.NoError(t, disk.Put(ctx, "../../escape.txt", strings.NewReader("x"), ""))
	ok, err := disk.Exists(ctx, "escape.txt")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestLocalDiskHonoursCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	disk, err := NewLocalDisk(t.TempDir(), "")
	require.NoError(t, err)
	assert.ErrorIs(t, disk.Put(ctx, "a.txt", strings.NewReader("x"), ""), context.Canceled)
}

func TestNewName(t *testing.T) {
	a := NewName("avatars", "Me.JPG")
	b := NewName("avatars", "Me.JPG")

	assert.True(t, strings.HasPrefix(a, "avatars/"))
	assert.True(t, strings.HasSuffix(a, ".jpg"))
	assert.NotEqual(t, a, b)
}

type fakeS3 struct {
	objects map[string][]byte
}

func (f *fakeS3) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	data, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	f.objects[*in.Key] = data
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeS3) GetObject(_ context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	data, ok := f.objects[*in.Key]
	if !ok {
		return nil, &types.NoSuchKey{}
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(data))}, nil
}

func (f *fakeS3) HeadObject(_ context.Context, in *s3.HeadObjectInput, _ ...func(*s3.Options)) (*s3.HeadObjectOutput, error) {
	if _, ok := f.objects[*in.Key]; !ok {
		return nil, &types.NotFound{}
	}
	return &s3.HeadObjectOutput{}, nil
}

func (f *fakeS3) DeleteObject(_ context.Context, in *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	delete(f.objects, *in.Key)
	return &s3.DeleteObjectOutput{}, nil
}

func TestS3Disk(t *testing.T) {
	ctx := context.Background()
	fake := &fakeS3{objects: map[string][]byte{}}
	disk := newS3Disk(fake, "kasir", "https://cdn.example.com/")

	require.NoError(t, disk.Put(ctx, "/products/tea.png", strings.NewReader("img"), "image/png"))
	assert.Contains(t, fake.objects, "products/tea.png")

	ok, err := disk.Exists(ctx, "products/tea.png")
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, disk.Delete(ctx, "products/tea.png"))
	ok, err = disk.Exists(ctx, "products/tea.png")
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = disk.Get(ctx, "products/tea.png")
	assert.ErrorIs(t, err, ErrNotExist)
	assert.Equal(t, "https://cdn.example.com/products/tea.png", disk.URL("products/tea.png"))
}

func TestManagerWith(t *testing.T) {
	disk, err := NewLocalDisk(t.TempDir(), "")
	require.NoError(t, err)

	m := NewManagerWith("local", disk)
	assert.Same(t, disk, m.Default())
	assert.Same(t, disk, m.Local())

	_, err = m.Disk("s3")
	assert.Error(t, err)
}
