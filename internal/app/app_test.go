package app

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"seungpyo.lee/PersonalBlog/internal/config"
	"seungpyo.lee/PersonalBlog/internal/mailer"
	"seungpyo.lee/PersonalBlog/internal/media"
)

func TestNewPictureStore(t *testing.T) {
	dir := t.TempDir()

	store, err := newPictureStore(context.Background(), config.PictureConfig{Store: "local", Dir: dir})
	require.NoError(t, err)
	assert.IsType(t, &media.LocalStore{}, store)
	assert.Equal(t, PicturePrefix+"/ab.png", store.URL("ab.png"))

	_, err = newPictureStore(context.Background(), config.PictureConfig{Store: "s3", Dir: dir})
	assert.Error(t, err, "bucket is required")

	_, err = newPictureStore(context.Background(), config.PictureConfig{Store: "ftp", Dir: dir})
	assert.EqualError(t, err, `unknown PICTURE_STORE "ftp"`)
}

func TestNewMailer(t *testing.T) {
	m, err := newMailer(config.MailConfig{}, false, zerolog.Nop())
	require.NoError(t, err)
	assert.IsType(t, &mailer.LogMailer{}, m)

	m, err = newMailer(config.MailConfig{Server: "smtp.example.com", Port: 587}, true, zerolog.Nop())
	require.NoError(t, err)
	assert.IsType(t, &mailer.SMTPMailer{}, m)
}

func TestNewMailer_ProductionRequiresSMTP(t *testing.T) {
	m, err := newMailer(config.MailConfig{}, true, zerolog.Nop())
	assert.EqualError(t, err, "MAIL_SERVER is required in production")
	assert.Nil(t, m)
}
