package catalog

import "ecoscore-go/internal/models"

// DefaultGoalTarget is the weekly target applied to every category unless a
// catalog file overrides it.
const DefaultGoalTarget models.Points = 100

func defaultActions() []models.Action {
	return []models.Action{
		{Id: "sort-waste", Description: "Sort waste correctly", Category: models.CategoryRecycling, Points: 15},
		{Id: "avoid-disposable-plastic", Description: "Avoid disposable plastic", Category: models.CategoryRecycling, Points: 30},
		{Id: "recycling-drop-off", Description: "Take waste to a recycling point", Category: models.CategoryRecycling, Points: 55},
		{Id: "recyclable-packaging", Description: "Choose products with recyclable packaging", Category: models.CategoryRecycling, Points: 30},
		{Id: "neighbourhood-cleanup", Description: "Organize a neighbourhood collection drive", Category: models.CategoryRecycling, Points: 80},
		{Id: "reuse-organic-waste", Description: "Reuse organic waste wisely", Category: models.CategoryRecycling, Points: 40},

		{Id: "short-shower", Description: "Keep showers under 10 minutes", Category: models.CategoryWaterEnergy, Points: 35},
		{Id: "lights-off", Description: "Switch off the lights when leaving a room", Category: models.CategoryWaterEnergy, Points: 15},
		{Id: "tap-off-brushing", Description: "Turn off the tap while brushing your teeth", Category: models.CategoryWaterEnergy, Points: 20},
		{Id: "bucket-not-hose", Description: "Use a bucket instead of a hose", Category: models.CategoryWaterEnergy, Points: 40},
		{Id: "natural-light", Description: "Make the most of natural light", Category: models.CategoryWaterEnergy, Points: 50},
		{Id: "reuse-laundry-water", Description: "Reuse water from the washing machine", Category: models.CategoryWaterEnergy, Points: 90},

		{Id: "water-not-soda", Description: "Drink more water and avoid soda", Category: models.CategoryHabits, Points: 20},
		{Id: "less-social-media", Description: "Spend less time on social media", Category: models.CategoryHabits, Points: 40},
		{Id: "exercise", Description: "Do physical exercise", Category: models.CategoryHabits, Points: 35},
		{Id: "read-a-book", Description: "Read a book", Category: models.CategoryHabits, Points: 55},
		{Id: "environmental-volunteering", Description: "Do environmental volunteer work", Category: models.CategoryHabits, Points: 100},

		{Id: "walk-not-drive", Description: "Walk instead of driving", Category: models.CategoryEmissions, Points: 20},
		{Id: "local-food", Description: "Choose local or organic food", Category: models.CategoryEmissions, Points: 30},
		{Id: "public-transport", Description: "Take public transport or ride a bike", Category: models.CategoryEmissions, Points: 20},
		{Id: "skip-air-conditioning", Description: "Avoid using air conditioning", Category: models.CategoryEmissions, Points: 20},
		{Id: "plant-a-tree", Description: "Plant a tree", Category: models.CategoryEmissions, Points: 80},
		{Id: "carpool", Description: "Share a ride", Category: models.CategoryEmissions, Points: 80},
	}
}

func defaultGoals() []models.Goal {
	return []models.Goal{
		{Category: models.CategoryRecycling, Target: DefaultGoalTarget, Tip: "Separate paper, plastic and metal and take them to a collection point."},
		{Category: models.CategoryWaterEnergy, Target: DefaultGoalTarget, Tip: "Take shorter showers and turn off the tap when you are not using it."},
		{Category: models.CategoryHabits, Target: DefaultGoalTarget, Tip: "Exercise and eat healthy meals."},
		{Category: models.CategoryEmissions, Target: DefaultGoalTarget, Tip: "Prefer public transport, cycling or carpooling."},
	}
}
