package models

type Category struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type Medicine struct {
	ID           int64   `json:"id"`
	Slug         string  `json:"slug"`
	Name         string  `json:"name"`
	GenericName  string  `json:"generic_name"`
	Brand        string  `json:"brand"`
	Description  string  `json:"description"`
	Price        float64 `json:"price"`
	Stock        int64   `json:"stock"`
	ImageURL     string  `json:"image_url"`
	CategoryName *string `json:"category_name"`
}

type Doctor struct {
	ID              int64   `json:"id"`
	Name            string  `json:"name"`
	Specialty       string  `json:"specialty"`
	ExperienceYears int64   `json:"experience_years"`
	ConsultationFee float64 `json:"consultation_fee"`
	ImageURL        string  `json:"image_url"`
}

type LabTest struct {
	ID       int64   `json:"id"`
	Name     string  `json:"name"`
	Category string  `json:"category"`
	Price    float64 `json:"price"`
	LabName  *string `json:"lab_name"`
	City     *string `json:"city"`
}
