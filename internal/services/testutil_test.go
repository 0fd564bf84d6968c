package services

import (
	"testing"

	"github.com/famcart/backend/internal/models"
	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

func setupServiceTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed opening in-memory sqlite database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed getting sql.DB from gorm: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	t.Cleanup(func() {
		_ = sqlDB.Close()
	})

	err = db.AutoMigrate(
		&models.User{},
		&models.ShoppingList{},
		&models.ListItem{},
	)
	if err != nil {
		t.Fatalf("failed automigrating models: %v", err)
	}

	return db
}

func createUser(t *testing.T, db *gorm.DB, email, name string) *models.User {
	t.Helper()

	user := &models.User{
		Email:        email,
		Name:         name,
		AuthProvider: models.AuthProviderLocal,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed creating user %s: %v", email, err)
	}
	return user
}

func createList(t *testing.T, db *gorm.DB, creator *models.User, title string) *models.ShoppingList {
	t.Helper()

	list := &models.ShoppingList{
		Title:     title,
		CreatorID: creator.ID,
	}
	if err := db.Create(list).Error; err != nil {
		t.Fatalf("failed creating list %s: %v", title, err)
	}
	return list
}

func createItem(t *testing.T, db *gorm.DB, list *models.ShoppingList, name string, status models.ItemStatus, assignee *uuid.UUID) *models.ListItem {
	t.Helper()

	item := &models.ListItem{
		ListID:         list.ID,
		Name:           name,
		Quantity:       1,
		Unit:           models.DefaultUnit,
		Status:         status,
		AssignedUserID: assignee,
	}
	if err := db.Create(item).Error; err != nil {
		t.Fatalf("failed creating item %s: %v", name, err)
	}
	return item
}

func strPtr(value string) *string {
	return &value
}

func intPtr(value int) *int {
	return &value
}

func statusPtr(status models.ItemStatus) *models.ItemStatus {
	return &status
}
