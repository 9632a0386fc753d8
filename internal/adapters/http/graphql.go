package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/graphql-go/graphql"
)

// buildSchema creates the GraphQL schema wired to our services. Object
// fields resolve through the json tags of the domain types.
func buildSchema(deps *Dependencies) (graphql.Schema, error) {
	geoPointType := graphql.NewObject(graphql.ObjectConfig{
		Name: "GeoPoint",
		Fields: graphql.Fields{
			"lat": &graphql.Field{Type: graphql.Float},
			"lon": &graphql.Field{Type: graphql.Float},
		},
	})

	placeType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Place",
		Fields: graphql.Fields{
			"id":           &graphql.Field{Type: graphql.String},
			"name":         &graphql.Field{Type: graphql.String},
			"municipality": &graphql.Field{Type: graphql.String},
			"department":   &graphql.Field{Type: graphql.String},
			"country":      &graphql.Field{Type: graphql.String},
			"location":     &graphql.Field{Type: geoPointType},
			"provider":     &graphql.Field{Type: graphql.String},
			"geohash":      &graphql.Field{Type: graphql.String},
			"distance":     &graphql.Field{Type: graphql.Float},
			"resolved_at":  &graphql.Field{Type: graphql.DateTime},
		},
	})

	checkType := graphql.NewObject(graphql.ObjectConfig{
		Name: "CoordinateCheck",
		Fields: graphql.Fields{
			"latitude_dms":  &graphql.Field{Type: graphql.String},
			"longitude_dms": &graphql.Field{Type: graphql.String},
			"latitude":      &graphql.Field{Type: graphql.Float},
			"longitude":     &graphql.Field{Type: graphql.Float},
			"valid":         &graphql.Field{Type: graphql.Boolean},
			"reason":        &graphql.Field{Type: graphql.String},
		},
	})

	distanceType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Distance",
		Fields: graphql.Fields{
			"meters":     &graphql.Field{Type: graphql.Float},
			"kilometers": &graphql.Field{Type: graphql.Float},
		},
	})

	regionType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Region",
		Fields: graphql.Fields{
			"lat_min": &graphql.Field{Type: graphql.Float},
			"lat_max": &graphql.Field{Type: graphql.Float},
			"lon_min": &graphql.Field{Type: graphql.Float},
			"lon_max": &graphql.Field{Type: graphql.Float},
		},
	})

	dmsArgs := graphql.FieldConfigArgument{
		"latitude":  &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
		"longitude": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
	}

	queryType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"toDecimal": &graphql.Field{
				Type: graphql.Float,
				Args: graphql.FieldConfigArgument{
					"dms": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return deps.Coordinates.ToDecimal(p.Args["dms"].(string))
				},
			},
			"toDMS": &graphql.Field{
				Type: graphql.String,
				Args: graphql.FieldConfigArgument{
					"decimal": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Float)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return deps.Coordinates.ToDMS(p.Args["decimal"].(float64))
				},
			},
			"isValidDMS": &graphql.Field{
				Type: graphql.Boolean,
				Args: graphql.FieldConfigArgument{
					"dms": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return deps.Coordinates.IsValid(p.Args["dms"].(string)), nil
				},
			},
			"checkPoint": &graphql.Field{
				Type: checkType,
				Args: dmsArgs,
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return deps.Coordinates.CheckPoint(p.Args["latitude"].(string), p.Args["longitude"].(string))
				},
			},
			"distance": &graphql.Field{
				Type: distanceType,
				Args: graphql.FieldConfigArgument{
					"lat1": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"lon1": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"lat2": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"lon2": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return deps.Coordinates.Distance(
						p.Args["lat1"].(string), p.Args["lon1"].(string),
						p.Args["lat2"].(string), p.Args["lon2"].(string),
					)
				},
			},
			"region": &graphql.Field{
				Type: regionType,
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return deps.Coordinates.Region(), nil
				},
			},
			"reverseGeocode": &graphql.Field{
				Type: placeType,
				Args: graphql.FieldConfigArgument{
					"lat": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Float)},
					"lon": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Float)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return deps.Geocoding.Reverse(p.Context, p.Args["lat"].(float64), p.Args["lon"].(float64))
				},
			},
			"forwardGeocode": &graphql.Field{
				Type: graphql.NewList(placeType),
				Args: graphql.FieldConfigArgument{
					"query": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"limit": &graphql.ArgumentConfig{Type: graphql.Int, DefaultValue: 5},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return deps.Geocoding.Forward(p.Context, p.Args["query"].(string), p.Args["limit"].(int))
				},
			},
		},
	})

	return graphql.NewSchema(graphql.SchemaConfig{
		Query: queryType,
	})
}

// GraphQLHandler serves the GraphQL endpoint.
func GraphQLHandler(deps *Dependencies) fiber.Handler {
	schema, err := buildSchema(deps)
	if err != nil {
		panic("graphql schema build: " + err.Error())
	}

	type gqlRequest struct {
		Query         string                 `json:"query"`
		OperationName string                 `json:"operationName"`
		Variables     map[string]interface{} `json:"variables"`
	}

	return func(c *fiber.Ctx) error {
		var req gqlRequest
		if err := c.BodyParser(&req); err != nil {
			return errBadRequest(c, "invalid request body")
		}
		if req.Query == "" {
			return errBadRequest(c, "query is required")
		}

		result := graphql.Do(graphql.Params{
			Schema:         schema,
			RequestString:  req.Query,
			VariableValues: req.Variables,
			OperationName:  req.OperationName,
			Context:        c.UserContext(),
		})

		return c.JSON(result)
	}
}
