package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/clasit/syllabus-manager/internal/app/controllers"
	"github.com/clasit/syllabus-manager/internal/app/models/dto"
)

// SetupRouter configures all application routes
func SetupRouter(
	router *gin.Engine,
	catalogController *controllers.CatalogController,
	syncController *controllers.SyncController,
	sectionController *controllers.SectionController,
	importController *controllers.ImportController,
) {
	// API version group
	v1 := router.Group("/api/v1")

	// Catalog routes (read-only view of the cached external feed)
	catalog := v1.Group("/catalog")
	{
		catalog.GET("/sections", catalogController.GetSections)
	}

	// Sync routes (reconciliation of local records against the feed)
	sync := v1.Group("/sync")
	{
		sync.GET("/match", syncController.Match)
		sync.POST("/create", syncController.CreateCourses)
		sync.POST("/update", syncController.UpdateCourses)
	}

	// Section record routes
	sections := v1.Group("/sections")
	{
		sections.POST("", sectionController.CreateSection)
		sections.GET("/:id", sectionController.GetSection)

		// Syllabus document management
		sections.POST("/:id/syllabus", sectionController.AttachSyllabus)
		sections.DELETE("/:id/syllabus", sectionController.DetachSyllabus)
	}

	// Import routes (taxonomy filter uploads)
	importGroup := v1.Group("/import")
	{
		importGroup.POST("/filters", importController.ImportFilters)
		importGroup.GET("/filters/:name", importController.ListFilterTerms)
	}

	// Health check endpoint
	v1.GET("/health", func(c *gin.Context) {
		c.JSON(200, dto.APIResponse{
			Data: gin.H{"status": "ok"},
		})
	})
}
