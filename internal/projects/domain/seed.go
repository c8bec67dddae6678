package domain

// SeedProjects returns the demo data set the service ships with. It is only
// loaded into an empty active set when SEED_DEMO_DATA is enabled.
func SeedProjects() []Project {
	return []Project{
		{
			ID:                  "1",
			ProjectName:         "Velez New Construction",
			Email:               "lisa.martin@innosoft832c.com",
			Status:              StatusProcessing,
			DateReceived:        "17/11/2025",
			DueDate:             "2025-11-20",
			SpecialReqs:         "E-Portal Hard Copy Needed",
			Latitude:            "30.2672° N",
			Longitude:           "97.7431° W",
			SoilData:            "Clay, silty clay loam",
			EndangeredSpecies:   "Houston toad",
			Waterway:            "Colorado River",
			LandDisturbanceArea: 2,
			InvoiceTotal:        1250.0,
			TrelloLink:          "https://trellocd79.com/c/ghi789aus",
			JobOrderLink:        "https://dropbox1203.com/s/aus_joborder3.pdf",
			FolderLink:          "https://dropbox9667.com/sh/aus_projectfolder3",
			InvoiceLink:         "https://quickbooks.intelligents8344.com/invoice/AUS-3003",
		},
		{
			ID:                  "2",
			ProjectName:         "Peace River Wildlife Center",
			Email:               "emily.park@greengridc8d9.com",
			Status:              StatusNew,
			DateReceived:        "13/11/2025",
			DueDate:             "2025-11-18",
			SpecialReqs:         "24-Hour Turnaround E-Portal",
			Latitude:            "35.7796° N",
			Longitude:           "78.6382° W",
			SoilData:            "Loamy sand, sandy clay",
			EndangeredSpecies:   "Red-cockaded woodpecker",
			Waterway:            "Neuse River",
			LandDisturbanceArea: 4,
			InvoiceTotal:        850.5,
			TrelloLink:          "https://trelloed18.com/c/mno345ral",
			JobOrderLink:        "https://dropbox27f4.com/s/ral_joborder5.pdf",
			FolderLink:          "https://dropboxbf1b.com/sh/ral_projectfolder5",
			InvoiceLink:         "https://quickbooks.intelligents4696.com/invoice/RAL-5005",
		},
		{
			ID:                  "3",
			ProjectName:         "Maslow Park",
			Email:               "jane.doe@acmeretail4a61.com",
			Status:              StatusPendingReview,
			DateReceived:        "15/11/2025",
			DueDate:             "2025-11-20",
			SpecialReqs:         "E-Portal Hard Copy Needed",
			Latitude:            "33.7490° N",
			Longitude:           "84.3880° W",
			SoilData:            "Clay loam, sandy clay loam",
			EndangeredSpecies:   "Wood Stork, Eastern Indigo Snake",
			Waterway:            "Chattahoochee River",
			LandDisturbanceArea: 3,
			TrelloLink:          "https://trelloef8f.com/c/abc123atl",
			JobOrderLink:        "https://dropboxaddd.com/s/atl_joborder1.pdf",
			FolderLink:          "https://dropbox8368.com/sh/atl_projectfolder1",
			InvoiceLink:         "https://quickbooks.intelligents8bf9.com/invoice/ATL-1001",
		},
		{
			ID:                  "4",
			ProjectName:         "Harbor View Development",
			Email:               "alex.tan@bluesky6a58.com",
			Status:              StatusComplete,
			DateReceived:        "14/11/2025",
			DueDate:             "2025-11-19",
			SpecialReqs:         "E-Portal 24-Hour Turnaround",
			Latitude:            "47.6062° N",
			Longitude:           "122.3321° W",
			SoilData:            "Silty clay loam, sandy loam",
			EndangeredSpecies:   "Chinook salmon",
			Waterway:            "Lake Union",
			LandDisturbanceArea: 3,
			TrelloLink:          "https://trelloe210.com/c/jkl012sea",
			JobOrderLink:        "https://dropboxe322.com/s/sea_joborder4.pdf",
			FolderLink:          "https://dropbox769d.com/sh/sea_projectfolder4",
			InvoiceLink:         "https://quickbooks.intelligents62c7.com/invoice/SEA-4004",
		},
		{
			ID:                  "5",
			ProjectName:         "Mountain Side Estates",
			Email:               "sam.lee@nextgenclouda270.com",
			Status:              StatusApproved,
			DateReceived:        "16/11/2025",
			DueDate:             "2025-11-21",
			SpecialReqs:         "Hard Copy Needed E-Portal",
			Latitude:            "39.7392° N",
			Longitude:           "104.9903° W",
			SoilData:            "Sandy loam, silt loam",
			EndangeredSpecies:   "Preble's meadow jumping mouse",
			Waterway:            "South Platte River",
			LandDisturbanceArea: 5,
			TrelloLink:          "https://trelloe17c.com/c/def456den",
			JobOrderLink:        "https://dropbox2186.com/s/den_joborder2.pdf",
			FolderLink:          "https://dropboxdd1b.com/sh/den_projectfolder2",
			InvoiceLink:         "https://quickbooks.intelligents623d.com/invoice/DEN-2002",
		},
	}
}
