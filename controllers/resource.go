package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pratyushashukla/IP-BE/db"
	"go.mongodb.org/mongo-driver/v2/bson"
)

// ResourceController is the pass-through data glue for a facility
// collection (inmates, visitors, meal plans and so on). Documents go in
// and out unmodified; domain validation lives with the collaborating
// services, not here.
type ResourceController struct {
	store      db.CollectionStore
	collection string

	// softDelete flips isActive instead of removing the document, used
	// for the users collection.
	softDelete bool
}

func NewResourceController(store db.CollectionStore, collection string) *ResourceController {
	return &ResourceController{store: store, collection: collection}
}

// NewSoftDeleteResourceController returns a controller whose Delete
// deactivates the document instead of removing it
func NewSoftDeleteResourceController(store db.CollectionStore, collection string) *ResourceController {
	return &ResourceController{store: store, collection: collection, softDelete: true}
}

// List returns every document in the collection, keyed by the
// collection name like the listing endpoints always were
func (ctrl ResourceController) List(c *gin.Context) {
	docs, err := ctrl.store.List(c.Request.Context(), ctrl.collection)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"message": "Error fetching " + ctrl.collection})
		return
	}

	c.JSON(http.StatusOK, gin.H{ctrl.collection: docs})
}

// Get returns a single document by id
func (ctrl ResourceController) Get(c *gin.Context) {
	doc, err := ctrl.store.Get(c.Request.Context(), ctrl.collection, c.Param("id"))
	if errors.Is(err, db.ErrNotFound) {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"message": "Record not found"})
		return
	}
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"message": "Error fetching " + ctrl.collection})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": doc})
}

// Create inserts the request body as a new document
func (ctrl ResourceController) Create(c *gin.Context) {
	var doc bson.M
	if err := c.ShouldBindJSON(&doc); err != nil {
		c.AbortWithStatusJSON(http.StatusNotAcceptable, gin.H{"message": "Invalid request body"})
		return
	}

	id, err := ctrl.store.Insert(c.Request.Context(), ctrl.collection, doc)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"message": "Error creating record"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Record created successfully", "id": id})
}

// Update applies the request body as a partial update
func (ctrl ResourceController) Update(c *gin.Context) {
	var doc bson.M
	if err := c.ShouldBindJSON(&doc); err != nil {
		c.AbortWithStatusJSON(http.StatusNotAcceptable, gin.H{"message": "Invalid request body"})
		return
	}

	updated, err := ctrl.store.Update(c.Request.Context(), ctrl.collection, c.Param("id"), doc)
	if errors.Is(err, db.ErrNotFound) {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"message": "Record not found"})
		return
	}
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"message": "Error updating record"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Record updated successfully", "data": updated})
}

// Delete removes a document, or deactivates it for soft-delete
// collections
func (ctrl ResourceController) Delete(c *gin.Context) {
	var err error
	if ctrl.softDelete {
		_, err = ctrl.store.Update(c.Request.Context(), ctrl.collection, c.Param("id"), bson.M{"isActive": false})
	} else {
		err = ctrl.store.Delete(c.Request.Context(), ctrl.collection, c.Param("id"))
	}

	if errors.Is(err, db.ErrNotFound) {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"message": "Record not found"})
		return
	}
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"message": "Error deleting record"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Record deleted successfully"})
}
