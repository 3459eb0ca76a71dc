package database_test

import (
	"bytes"
	"fmt"
	"testing"

	"catalog/internal/config"
	"catalog/internal/database"
	"catalog/internal/logger"
	"catalog/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenGORM_LogsThroughZerolog(t *testing.T) {
	var buf bytes.Buffer
	logger.SetupWriter(&buf, "info", false)
	t.Cleanup(logger.Discard)

	db, err := database.OpenGORM(config.DriverSQLite, fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString()))
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	var p models.Product
	err = db.First(&p, "id = ?", uuid.NewString()).Error
	require.Error(t, err)
	assert.NotContains(t, buf.String(), "record not found")

	require.Error(t, db.Exec("SELECT * FROM no_such_table").Error)
	assert.Contains(t, buf.String(), `"component":"gorm"`)
	assert.Contains(t, buf.String(), "no_such_table")
}

func TestOpenGORM_UnknownDriver(t *testing.T) {
	_, err := database.OpenGORM("oracle", "")
	assert.ErrorContains(t, err, "unsupported gorm driver")
}
