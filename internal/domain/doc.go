// Package domain models earthquake and city markers and the proximity rules
// that relate them.
//
// # Data Sources
//
// Earthquakes come from the USGS summary feeds
// (https://earthquake.usgs.gov/earthquakes/feed/v1.0/geojson.php). Each feature
// is a GeoJSON Point whose coordinates are [longitude, latitude, depth_km]; the
// "mag", "title" and "time" (epoch milliseconds) properties are read from the
// feature. Cities and country boundaries are static GeoJSON files shipped with
// the service.
//
// # Marker Kinds
//
// A [Marker] is a tagged variant: [KindCity], [KindLandQuake] or
// [KindOceanQuake]. Quakes start as ocean quakes and are promoted to land
// quakes by [Classify] when a country boundary contains the epicenter. The
// first containing boundary in file order wins.
//
// # Threat Circle
//
// The threat circle of a quake depends on magnitude only:
//
//	miles = 20 * 1.8^(2*magnitude - 5)
//	km    = miles * 1.6
//
// A location is threatened when its great-circle distance to the epicenter is
// strictly less than the radius. Radii grow quickly: magnitude 6 reaches about
// 1058 km, magnitude 8 about 12300 km.
//
// # Classification
//
// Depth (km):
//
//	<70 shallow | <300 intermediate | >=300 deep
//
// Magnitude:
//
//	<4 minor | <5 light | >=5 moderate
//
// Age (relative to the package clock, see [SetClock]):
//
//	<1h "Past Hour" | <24h "Past Day" | <7d "Past Week" | else "Past Month"
//
// Quakes of the past hour or day are rendered with a recency cross.
package domain
