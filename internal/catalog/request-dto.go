package catalog

type CreateTripRequest struct {
	Name         string  `json:"name" binding:"required,min=3,max=255"`
	Description  string  `json:"description" binding:"max=2000"`
	Destination  string  `json:"destination" binding:"required,min=2,max=255"`
	DurationDays int     `json:"duration_days" binding:"required,min=1,max=60"`
	Price        float64 `json:"price" binding:"required,min=0"`
	Quota        int     `json:"quota" binding:"required,min=1,max=10000"`
	ImageURL     string  `json:"image_url" binding:"omitempty,url"`
}

type UpdateTripRequest struct {
	Name         *string  `json:"name" binding:"omitempty,min=3,max=255"`
	Description  *string  `json:"description" binding:"omitempty,max=2000"`
	Destination  *string  `json:"destination" binding:"omitempty,min=2,max=255"`
	DurationDays *int     `json:"duration_days" binding:"omitempty,min=1,max=60"`
	Price        *float64 `json:"price" binding:"omitempty,min=0"`
	Quota        *int     `json:"quota" binding:"omitempty,min=1,max=10000"`
	Active       *bool    `json:"active"`
	ImageURL     *string  `json:"image_url" binding:"omitempty,url"`
}

type CreateTravelRequest struct {
	Name        string  `json:"name" binding:"required,min=3,max=255"`
	Origin      string  `json:"origin" binding:"required,min=2,max=255"`
	Destination string  `json:"destination" binding:"required,min=2,max=255"`
	Schedule    string  `json:"schedule" binding:"max=100"`
	Price       float64 `json:"price" binding:"required,min=0"`
	ImageURL    string  `json:"image_url" binding:"omitempty,url"`
}

type UpdateTravelRequest struct {
	Name        *string  `json:"name" binding:"omitempty,min=3,max=255"`
	Origin      *string  `json:"origin" binding:"omitempty,min=2,max=255"`
	Destination *string  `json:"destination" binding:"omitempty,min=2,max=255"`
	Schedule    *string  `json:"schedule" binding:"omitempty,max=100"`
	Price       *float64 `json:"price" binding:"omitempty,min=0"`
	Active      *bool    `json:"active"`
	ImageURL    *string  `json:"image_url" binding:"omitempty,url"`
}

type CatalogListQuery struct {
	Page   int    `form:"page" binding:"omitempty,min=1"`
	Limit  int    `form:"limit" binding:"omitempty,min=1,max=100"`
	Search string `form:"search"`
}
